package directions

import (
	"context"
	"strings"
)

// Static resolves every pair to a straight line between two fixed points.
// It stands in for the mapping service when no API key is configured.
type Static struct {
	From, To LatLng
}

// Resolve returns a two-point route. Blank places are ErrNoRoute.
func (s Static) Resolve(_ context.Context, origin, destination string) (Route, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return Route{}, ErrNoRoute
	}
	return Route{
		Summary:      origin + " - " + destination,
		Path:         []LatLng{s.From, s.To},
		StartAddress: origin,
		EndAddress:   destination,
	}, nil
}
