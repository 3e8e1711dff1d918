package location

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/weatherapp/forecast/internal/weather"
)

// zeroResults is the message kelvins/geocoder returns for a ZERO_RESULTS
// status; the library exposes no sentinel for it.
const zeroResults = "No results found."

// Google resolves places through the Google Geocoding API.
type Google struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogle configures the geocoder package with apiKey. The key is process
// global in the underlying library, so only one Google resolver should exist.
func NewGoogle(apiKey string) (*Google, error) {
	if apiKey == "" {
		return nil, ErrGeocodingDisabled
	}
	geocoder.ApiKey = apiKey
	return &Google{
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}, nil
}

// Resolve forward-geocodes a free-text place such as "Paris, FR".
func (g *Google) Resolve(ctx context.Context, query string) (weather.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return weather.Coordinates{}, ErrEmptyQuery
	}
	city, country := splitPlace(query)

	loc, err := call(ctx, func() (geocoder.Location, error) {
		return g.geocode(geocoder.Address{City: city, Country: country})
	})
	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	return weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// Locality reverse-geocodes coords to a display name: the city, else the
// state, else the country.
func (g *Google) Locality(ctx context.Context, coords weather.Coordinates) (string, error) {
	addrs, err := call(ctx, func() ([]geocoder.Address, error) {
		return g.reverse(geocoder.Location{Latitude: coords.Latitude, Longitude: coords.Longitude})
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode %s: %w", coords.Key(), err)
	}
	for _, a := range addrs {
		for _, name := range []string{a.City, a.State, a.Country} {
			if name != "" {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("reverse geocode %s: %w", coords.Key(), ErrNoResults)
}

// call runs a blocking geocoder request, giving up when ctx is done.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && r.err.Error() == zeroResults {
			return r.v, ErrNoResults
		}
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

var _ Resolver = (*Google)(nil)
