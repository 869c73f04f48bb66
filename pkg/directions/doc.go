// Package directions resolves routes between free-text places.
//
// GoogleMaps uses the Directions API in driving mode; Static draws a straight
// line and is used when no API key is configured. Both implement Resolver.
package directions
