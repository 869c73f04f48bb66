package directions_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/crowdpredictor/trafficmap/pkg/directions"
)

const testKey = "AIzaTestKeyForDirections"

func resolver(t *testing.T, body string, inspect func(*http.Request)) *directions.GoogleMaps {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	g, err := directions.NewGoogleMaps(testKey, []maps.ClientOption{maps.WithBaseURL(srv.URL)})
	require.NoError(t, err)
	return g
}

func TestGoogleMaps_Resolve(t *testing.T) {
	t.Parallel()

	const body = `{
		"status": "OK",
		"geocoded_waypoints": [],
		"routes": [{
			"summary": "O-1",
			"overview_polyline": {"points": "_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@"},
			"legs": [{
				"distance": {"text": "12.3 km", "value": 12300},
				"duration": {"text": "15 mins", "value": 900},
				"start_address": "Kadıköy, İstanbul",
				"end_address": "Beşiktaş, İstanbul",
				"steps": []
			}]
		}]
	}`

	g := resolver(t, body, func(r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "Kadıköy", r.URL.Query().Get("origin"))
		assert.Equal(t, "Beşiktaş", r.URL.Query().Get("destination"))
		assert.Equal(t, "driving", r.URL.Query().Get("mode"))
	})

	route, err := g.Resolve(context.Background(), "Kadıköy", "Beşiktaş")
	require.NoError(t, err)
	assert.Equal(t, "O-1", route.Summary)
	assert.Equal(t, 12300, route.DistanceMeters)
	assert.Equal(t, "12.3 km", route.DistanceText)
	assert.Equal(t, 15*time.Minute, route.Duration)
	assert.Equal(t, "Kadıköy, İstanbul", route.StartAddress)
	require.Len(t, route.Path, 3)
	assert.InDelta(t, 38.5, route.Path[0].Lat, 1e-5)
	assert.InDelta(t, -120.2, route.Path[0].Lng, 1e-5)
}

func TestGoogleMaps_NoRoute(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"zero results": `{"status":"ZERO_RESULTS","routes":[]}`,
		"not found":    `{"status":"NOT_FOUND","routes":[]}`,
		"ok but empty": `{"status":"OK","routes":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := resolver(t, body, nil).Resolve(context.Background(), "A", "B")
			assert.ErrorIs(t, err, directions.ErrNoRoute)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := directions.NewFromConfig(directions.Config{APIKey: "bogus"})
	assert.Error(t, err)

	g, err := directions.NewFromConfig(directions.Config{APIKey: testKey, Mode: "WALKING"})
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	s := directions.Static{From: directions.LatLng{Lat: 41, Lng: 29}, To: directions.LatLng{Lat: 41.1, Lng: 29.1}}
	route, err := s.Resolve(context.Background(), "A", "B")
	require.NoError(t, err)
	assert.Len(t, route.Path, 2)

	_, err = s.Resolve(context.Background(), "A", " ")
	assert.ErrorIs(t, err, directions.ErrNoRoute)
}
