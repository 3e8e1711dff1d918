// Package location supplies coordinates to the forecast pipeline: the
// configured device position and place-name search.
package location

import (
	"context"
	"errors"
	"strings"

	"github.com/weatherapp/forecast/internal/weather"
)

var (
	ErrEmptyQuery        = errors.New("empty place query")
	ErrNoResults         = errors.New("no place found")
	ErrNoLocation        = errors.New("no location configured")
	ErrGeocodingDisabled = errors.New("geocoding is not configured")
)

// Resolver maps place names to coordinates and back.
type Resolver interface {
	Resolve(ctx context.Context, query string) (weather.Coordinates, error)
	Locality(ctx context.Context, coords weather.Coordinates) (string, error)
}

// Provider supplies the current position as a one-shot call.
type Provider interface {
	Current(ctx context.Context) (weather.Coordinates, error)
}

// Static is a Provider backed by configured coordinates.
type Static struct {
	Locations []weather.Coordinates
}

// Current returns the first configured location.
func (s Static) Current(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if len(s.Locations) == 0 {
		return weather.Coordinates{}, ErrNoLocation
	}
	return s.Locations[0], nil
}

// splitPlace turns "City, Region, Country" into city and country parts.
func splitPlace(query string) (city, country string) {
	parts := strings.Split(query, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	city = parts[0]
	if len(parts) > 1 {
		country = parts[len(parts)-1]
	}
	return city, country
}
