package weather

import (
	"context"
	"time"
)

// Fetcher abstracts the forecast data source (Open-Meteo in production).
// Implementations return a *FetchError on any failure.
type Fetcher interface {
	Name() string
	FetchForecast(ctx context.Context, coords Coordinates) (*ForecastDocument, error)
}

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	SaveSnapshot(snapshot Snapshot)
	GetLatest(coords Coordinates) (Snapshot, error)
	GetRange(coords Coordinates, from, to time.Time) ([]Snapshot, error)
}

// Clock supplies the current local time.
type Clock func() time.Time

// FetchError is the only error type a Fetcher returns. Message is the
// human-readable text surfaced in the Error state.
type FetchError struct {
	StatusCode int // 0 for transport and decoding failures
	Message    string
	Err        error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
