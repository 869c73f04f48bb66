package directions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/crowdpredictor/trafficmap/core/logger"
)

// ErrNoRoute is returned when the mapping service finds no route or fails.
var ErrNoRoute = errors.New("directions: route not found")

// LatLng is a point on the route.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is a resolved driving route.
type Route struct {
	Summary        string        `json:"summary"`
	Polyline       string        `json:"polyline"`
	Path           []LatLng      `json:"path"`
	DistanceMeters int           `json:"distance_meters"`
	DistanceText   string        `json:"distance_text"`
	Duration       time.Duration `json:"duration"`
	StartAddress   string        `json:"start_address"`
	EndAddress     string        `json:"end_address"`
}

// Resolver resolves a route between two free-text places.
type Resolver interface {
	Resolve(ctx context.Context, origin, destination string) (Route, error)
}

// Config holds the mapping service settings.
type Config struct {
	APIKey  string `env:"GOOGLE_MAPS_API_KEY"`
	Mode    string `env:"DIRECTIONS_MODE" envDefault:"driving"`
	BaseURL string `env:"DIRECTIONS_BASE_URL"`
	Region  string `env:"DIRECTIONS_REGION" envDefault:"tr"`
}

// GoogleMaps resolves routes with the Google Maps Directions API.
type GoogleMaps struct {
	client *maps.Client
	mode   maps.Mode
	region string
	logger *slog.Logger
}

// Option configures GoogleMaps.
type Option func(*GoogleMaps)

// WithMode sets the travel mode. Unknown modes fall back to driving.
func WithMode(mode string) Option {
	return func(g *GoogleMaps) {
		switch m := maps.Mode(strings.ToLower(mode)); m {
		case maps.TravelModeDriving, maps.TravelModeWalking, maps.TravelModeBicycling, maps.TravelModeTransit:
			g.mode = m
		}
	}
}

// WithRegion biases geocoding of the free-text places to a region code.
func WithRegion(region string) Option {
	return func(g *GoogleMaps) { g.region = region }
}

// WithLogger sets the logger used for failed lookups.
func WithLogger(l *slog.Logger) Option {
	return func(g *GoogleMaps) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGoogleMaps creates a resolver. clientOpts are passed to maps.NewClient
// after the API key.
func NewGoogleMaps(apiKey string, clientOpts []maps.ClientOption, opts ...Option) (*GoogleMaps, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, clientOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("directions: create client: %w", err)
	}

	g := &GoogleMaps{
		client: client,
		mode:   maps.TravelModeDriving,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewFromConfig creates a resolver from configuration.
func NewFromConfig(cfg Config, opts ...Option) (*GoogleMaps, error) {
	var clientOpts []maps.ClientOption
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.BaseURL))
	}
	return NewGoogleMaps(cfg.APIKey, clientOpts, append([]Option{WithMode(cfg.Mode), WithRegion(cfg.Region)}, opts...)...)
}

// Resolve asks for directions and returns the first route. Any service error
// or an empty result is ErrNoRoute.
func (g *GoogleMaps) Resolve(ctx context.Context, origin, destination string) (Route, error) {
	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        g.mode,
		Region:      g.region,
	})
	if err != nil {
		g.logger.InfoContext(ctx, "directions lookup failed",
			logger.Component("directions"),
			logger.Error(err),
		)
		return Route{}, fmt.Errorf("%w: %w", ErrNoRoute, err)
	}
	if len(routes) == 0 {
		return Route{}, ErrNoRoute
	}
	return convert(routes[0]), nil
}

func convert(r maps.Route) Route {
	out := Route{
		Summary:  r.Summary,
		Polyline: r.OverviewPolyline.Points,
	}

	if points, err := r.OverviewPolyline.Decode(); err == nil {
		out.Path = make([]LatLng, len(points))
		for i, p := range points {
			out.Path[i] = LatLng{Lat: p.Lat, Lng: p.Lng}
		}
	}

	for i, leg := range r.Legs {
		if leg == nil {
			continue
		}
		out.DistanceMeters += leg.Distance.Meters
		out.Duration += leg.Duration
		if i == 0 {
			out.StartAddress = leg.StartAddress
		}
		out.EndAddress = leg.EndAddress
	}
	if len(r.Legs) == 1 && r.Legs[0] != nil {
		out.DistanceText = r.Legs[0].Distance.HumanReadable
	}
	return out
}
