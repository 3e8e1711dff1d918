package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/weatherapp/forecast/internal/weather"
)

// RateLimitedFetcher wraps a Fetcher with a token-bucket limiter.
type RateLimitedFetcher struct {
	fetcher weather.Fetcher
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedFetcher allows rps requests per second with the given burst.
// rps may be fractional.
func NewRateLimitedFetcher(fetcher weather.Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", fetcher.Name()),
	}
}

func (r *RateLimitedFetcher) Name() string {
	return r.name
}

// FetchForecast waits for limiter permission, then forwards the call.
func (r *RateLimitedFetcher) FetchForecast(ctx context.Context, coords weather.Coordinates) (*weather.ForecastDocument, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &weather.FetchError{Message: fmt.Sprintf("rate limit wait canceled: %v", err), Err: err}
	}
	return r.fetcher.FetchForecast(ctx, coords)
}

var (
	_ weather.Fetcher = (*RateLimitedFetcher)(nil)
	_ weather.Fetcher = (*OpenMeteoProvider)(nil)
)
