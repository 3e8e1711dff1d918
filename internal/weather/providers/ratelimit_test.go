package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/weatherapp/forecast/internal/weather"
)

type countingFetcher struct {
	calls int
}

func (c *countingFetcher) Name() string { return "counting" }

func (c *countingFetcher) FetchForecast(ctx context.Context, coords weather.Coordinates) (*weather.ForecastDocument, error) {
	c.calls++
	return &weather.ForecastDocument{}, nil
}

func TestRateLimitedFetcherName(t *testing.T) {
	f := NewRateLimitedFetcher(&countingFetcher{}, 1, 1)
	if f.Name() != "counting [Rate Limited]" {
		t.Fatalf("unexpected name %q", f.Name())
	}
}

func TestRateLimitedFetcherBurst(t *testing.T) {
	inner := &countingFetcher{}
	f := NewRateLimitedFetcher(inner, 0.001, 2)

	for i := 0; i < 2; i++ {
		if _, err := f.FetchForecast(context.Background(), weather.Coordinates{}); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}

	// The bucket is empty; a done context must not be forwarded.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.FetchForecast(ctx, weather.Coordinates{})
	var fe *weather.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *weather.FetchError, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("expected 2 forwarded calls, got %d", inner.calls)
	}
}
