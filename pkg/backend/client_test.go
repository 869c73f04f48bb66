package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdpredictor/trafficmap/core/session"
	"github.com/crowdpredictor/trafficmap/pkg/backend"
)

func authed(t *testing.T) session.Session {
	t.Helper()
	sess, err := session.Authenticated("tok-123", session.User{ID: "1", Name: "Ada"})
	require.NoError(t, err)
	return sess
}

func newClient(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := backend.New(srv.URL)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := backend.New("not a url")
	assert.Error(t, err)
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds backend.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"token":"tok","user":{"id":5,"name":"Ada","email":"ada@example.com"}}`)
	})

	res, err := c.Login(context.Background(), backend.Credentials{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, backend.ID("5"), res.User.ID)

	_, err = c.Login(context.Background(), backend.Credentials{Email: "ada@example.com", Password: "nope"})
	assert.True(t, backend.IsAuth(err))
	assert.Equal(t, "Invalid email or password", backend.Message(err))
}

func TestClient_AnonymousIsRefusedLocally(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	})

	ctx := context.Background()
	anon := session.Anonymous()

	_, err := c.ListHistory(ctx, anon)
	assert.ErrorIs(t, err, backend.ErrUnauthenticated)
	_, err = c.ListFavorites(ctx, anon)
	assert.ErrorIs(t, err, backend.ErrUnauthenticated)
	assert.ErrorIs(t, c.AddFavorite(ctx, anon, backend.ManualFavorite("A", "B")), backend.ErrUnauthenticated)
	assert.ErrorIs(t, c.DeleteFavorite(ctx, anon, "1"), backend.ErrUnauthenticated)
	assert.ErrorIs(t, c.AddHistory(ctx, anon, backend.NewHistoryEntry{}), backend.ErrUnauthenticated)

	assert.Zero(t, hits.Load())
}

func TestClient_BearerToken(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"favorites":[{"id":3,"origin":"Kadıköy","destination":"Beşiktaş","route_name":"Kadıköy - Beşiktaş"}]}`)
	})

	favs, err := c.ListFavorites(context.Background(), authed(t))
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, backend.ID("3"), favs[0].ID)
	assert.Equal(t, "Kadıköy - Beşiktaş", favs[0].Name())
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		auth    bool
		message string
	}{
		{"error field", http.StatusBadRequest, `{"error":"Eksik alan: origin"}`, false, "Eksik alan: origin"},
		{"message field", http.StatusInternalServerError, `{"message":"db down"}`, false, "db down"},
		{"no message", http.StatusBadGateway, `<html>`, false, "request failed"},
		{"empty message", http.StatusConflict, `{"error":""}`, false, "request failed"},
		{"unauthorized", http.StatusUnauthorized, `{"message":"Token is invalid"}`, true, "Token is invalid"},
		{"forbidden", http.StatusForbidden, `{}`, true, "request failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tc.status, tc.body)
			})

			_, err := c.ListHistory(context.Background(), authed(t))
			var be *backend.Error
			require.ErrorAs(t, err, &be)
			assert.Equal(t, tc.status, be.Status)
			assert.Equal(t, tc.message, be.Message)
			assert.Equal(t, tc.auth, backend.IsAuth(err))
			assert.False(t, backend.IsConnectivity(err))
		})
	}
}

func TestClient_Connectivity(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := backend.New(url)
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), session.Anonymous(), backend.PredictRequest{Origin: "A", Destination: "B"})
	assert.True(t, backend.IsConnectivity(err))
	var be *backend.Error
	assert.False(t, errors.As(err, &be))
}

func TestClient_InvalidResponse(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})

	_, err := c.Predict(context.Background(), session.Anonymous(), backend.PredictRequest{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, backend.ErrInvalidResponse)
}

func TestClient_PredictKeepsRawResult(t *testing.T) {
	t.Parallel()

	const prediction = `{"traffic_level":2,"traffic_info":{"level":"yogun","color":"red","description":"Trafik çok yoğun"},"timestamp":"2025-06-01T08:00:00"}`
	at := time.Date(2025, 6, 1, 8, 30, 0, 0, time.FixedZone("TRT", 3*3600))

	var stored json.RawMessage
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/predict":
			assert.Empty(t, r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "2025-06-01T05:30:00.000Z", body["datetime"])
			writeJSON(w, http.StatusOK, prediction)
		case "/search-history":
			var body struct {
				PredictionResult json.RawMessage `json:"prediction_result"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			stored = body.PredictionResult
			writeJSON(w, http.StatusCreated, `{"message":"ok"}`)
		}
	})

	ctx := context.Background()
	p, err := c.Predict(ctx, session.Anonymous(), backend.PredictRequest{Origin: "A", Destination: "B", Datetime: at})
	require.NoError(t, err)
	assert.Equal(t, 2, p.TrafficLevel)
	assert.Equal(t, "Trafik çok yoğun", p.Description())

	require.NoError(t, c.AddHistory(ctx, authed(t), backend.NewHistoryEntry{Origin: "A", Destination: "B", Datetime: at, PredictionResult: p}))
	assert.JSONEq(t, prediction, string(stored))
}

func TestClient_DeleteFavorite(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/favorites/42", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteFavorite(context.Background(), authed(t), "42"))
}

func TestClient_HealthAndModelInfo(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			writeJSON(w, http.StatusOK, `{"status":"healthy","model_available":true}`)
		case "/model-info":
			writeJSON(w, http.StatusOK, `{"model_type":"RandomForestClassifier","feature_count":10,"traffic_levels":{"0":{"name":"Az","color":"green"}}}`)
		}
	})

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())

	info, err := c.ModelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "green", info.TrafficLevels["0"].Color)
}

func TestFavoriteHelpers(t *testing.T) {
	t.Parallel()

	fav := backend.FavoriteFromHistory(backend.SearchHistoryEntry{ID: "9", Origin: "Üsküdar", Destination: "Şişli"})
	require.NotNil(t, fav.SearchID)
	assert.Equal(t, backend.ID("9"), *fav.SearchID)
	assert.Equal(t, "Üsküdar - Şişli", fav.RouteName)

	body, err := json.Marshal(fav)
	require.NoError(t, err)
	assert.JSONEq(t, `{"search_id":9,"route_name":"Üsküdar - Şişli"}`, string(body))

	assert.Equal(t, "Üsküdar - no destination", backend.RouteName("Üsküdar", ""))
	assert.Equal(t, "A - B", backend.ManualFavorite("A", "B").RouteName)
}

func TestPrediction_StringEncoded(t *testing.T) {
	t.Parallel()

	var entry backend.SearchHistoryEntry
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"prediction_result":"{\"traffic_level\":1}"}`), &entry))
	require.NotNil(t, entry.PredictionResult)
	assert.Equal(t, 1, entry.PredictionResult.TrafficLevel)
}

func TestClient_PredictWithoutLevelIsUnknown(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"missing":    `{"traffic_info":{"description":"?"}}`,
		"null":       `{"traffic_level":null}`,
		"string":     `{"traffic_level":"heavy"}`,
		"fractional": `{"traffic_level":1.5}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			})

			p, err := c.Predict(context.Background(), session.Anonymous(), backend.PredictRequest{Origin: "A", Destination: "B"})
			require.NoError(t, err)
			assert.Equal(t, backend.UnknownLevel, p.TrafficLevel)
			assert.JSONEq(t, body, string(p.Raw()))
		})
	}
}

func TestClient_ListHistoryToleratesBadPrediction(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"search_history":[
			{"id":1,"origin":"A","destination":"B","prediction_result":{"traffic_level":0,"traffic_info":{"description":"Açık"}}},
			{"id":2,"origin":"C","destination":"D","prediction_result":"not json"},
			{"id":3,"origin":"E","destination":"F","prediction_result":{"traffic_level":1,"traffic_info":{"avg_speed":"fast"}}},
			{"id":4,"origin":"G","destination":"H"}
		]}`)
	})

	entries, err := c.ListHistory(context.Background(), authed(t))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.NotNil(t, entries[0].PredictionResult)
	assert.Equal(t, 0, entries[0].PredictionResult.TrafficLevel)
	assert.False(t, entries[0].PredictionUnreadable())

	assert.Nil(t, entries[1].PredictionResult)
	assert.True(t, entries[1].PredictionUnreadable())
	assert.JSONEq(t, `"not json"`, string(entries[1].RawPrediction))
	assert.Equal(t, "C", entries[1].Origin)

	assert.True(t, entries[2].PredictionUnreadable())

	assert.Nil(t, entries[3].PredictionResult)
	assert.False(t, entries[3].PredictionUnreadable())
}

func TestClient_ListFavoritesToleratesBadPrediction(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"favorites":[
			{"id":1,"origin":"A","destination":"B","route_name":"A - B","prediction_result":[1,2]},
			{"id":2,"origin":"C","destination":"D","prediction_result":{"traffic_level":2}}
		]}`)
	})

	favs, err := c.ListFavorites(context.Background(), authed(t))
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.True(t, favs[0].PredictionUnreadable())
	assert.Equal(t, "A - B", favs[0].Name())
	require.NotNil(t, favs[1].PredictionResult)
	assert.Equal(t, 2, favs[1].PredictionResult.TrafficLevel)
}
