package main

import (
	"context"

	"github.com/weatherapp/forecast/internal/config"
	"github.com/weatherapp/forecast/internal/store"
	"github.com/weatherapp/forecast/internal/weather"
	"github.com/weatherapp/forecast/internal/weather/providers"
)

// newService builds the fetch client and forecast service from configuration.
func newService(ctx context.Context, cfg *config.AppConfig) *weather.Service {
	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
	})

	var fetcher weather.Fetcher = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL)
	if cfg.RateLimit > 0 {
		fetcher = providers.NewRateLimitedFetcher(fetcher, cfg.RateLimit, cfg.RateBurst)
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	return weather.NewService(fetcher, memStore, nil,
		weather.WithFencing(cfg.Fencing),
		weather.WithBaseContext(ctx),
	)
}
