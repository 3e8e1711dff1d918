package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrUnknownLocation is returned when no forecast was ever requested for coordinates.
	ErrUnknownLocation = errors.New("no forecast requested for location")
	// ErrNotReady is returned when the latest state is not Success.
	ErrNotReady = errors.New("forecast not available")
)

// Service owns one Pipeline per coordinate pair and the history store.
type Service struct {
	fetcher Fetcher
	store   Store
	clock   Clock
	opts    []PipelineOption

	mu        sync.Mutex
	pipelines map[string]*Pipeline
}

// NewService creates a new Service. A nil clock defaults to time.Now.
func NewService(fetcher Fetcher, store Store, clock Clock, opts ...PipelineOption) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		fetcher:   fetcher,
		store:     store,
		clock:     clock,
		opts:      opts,
		pipelines: make(map[string]*Pipeline),
	}
}

// Pipeline returns the state cell for coords, creating it on first use.
func (s *Service) Pipeline(coords Coordinates) *Pipeline {
	key := coords.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pipelines[key]
	if !ok {
		opts := append([]PipelineOption{WithSuccessHook(s.saveSnapshot)}, s.opts...)
		p = NewPipeline(s.fetcher, opts...)
		s.pipelines[key] = p
	}
	return p
}

// RequestForecast starts a fetch for coords. See Pipeline.RequestForecast.
func (s *Service) RequestForecast(coords Coordinates) <-chan ForecastState {
	return s.Pipeline(coords).RequestForecast(coords.Latitude, coords.Longitude)
}

// Refresh requests a forecast and waits for this request's terminal state.
func (s *Service) Refresh(ctx context.Context, coords Coordinates) (ForecastState, error) {
	done := s.RequestForecast(coords)
	select {
	case st := <-done:
		if st.Kind == StateError {
			return st, fmt.Errorf("refresh %s: %s", coords.Key(), st.Message)
		}
		return st, nil
	case <-ctx.Done():
		return Loading(), ctx.Err()
	}
}

// State returns the latest state for coords.
func (s *Service) State(coords Coordinates) (ForecastState, error) {
	s.mu.Lock()
	p, ok := s.pipelines[coords.Key()]
	s.mu.Unlock()
	if !ok {
		return ForecastState{}, ErrUnknownLocation
	}
	return p.State(), nil
}

// Hourly buckets the latest successful document relative to the current
// time in the forecast's own zone, optionally keeping only one day label.
func (s *Service) Hourly(coords Coordinates, day string) ([]HourlyBucket, []Diagnostic, error) {
	doc, err := s.document(coords)
	if err != nil {
		return nil, nil, err
	}
	now := s.clock().In(doc.Location())
	buckets, diags := BucketHourly(doc.Hourly, now)
	if len(diags) > 0 {
		slog.Debug("hourly buckets skipped samples", "key", coords.Key(), "skipped", len(diags))
	}
	if day != "" {
		buckets = FilterDay(buckets, day)
	}
	return buckets, diags, nil
}

// Daily returns the weekly rows of the latest successful document.
func (s *Service) Daily(coords Coordinates) ([]DailyRow, []Diagnostic, error) {
	doc, err := s.document(coords)
	if err != nil {
		return nil, nil, err
	}
	rows, diags := DailyRows(doc.Daily)
	return rows, diags, nil
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock()
}

// LocalNow returns the current time in the zone of the latest successful
// forecast for coords, the same reference Hourly labels days against.
func (s *Service) LocalNow(coords Coordinates) (time.Time, error) {
	doc, err := s.document(coords)
	if err != nil {
		return time.Time{}, err
	}
	return s.clock().In(doc.Location()), nil
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(coords Coordinates) (Snapshot, error) {
	return s.store.GetLatest(coords)
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(coords Coordinates, from, to time.Time) ([]Snapshot, error) {
	return s.store.GetRange(coords, from, to)
}

func (s *Service) document(coords Coordinates) (*ForecastDocument, error) {
	st, err := s.State(coords)
	if err != nil {
		return nil, err
	}
	if st.Kind != StateSuccess {
		if st.Kind == StateError {
			return nil, fmt.Errorf("%w: %s", ErrNotReady, st.Message)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotReady, st.Kind)
	}
	return st.Document, nil
}

func (s *Service) saveSnapshot(coords Coordinates, requestID string, doc *ForecastDocument) {
	if s.store == nil {
		return
	}
	s.store.SaveSnapshot(Snapshot{
		Coordinates: coords,
		RequestID:   requestID,
		FetchedAt:   s.clock().UTC(),
		Document:    doc,
	})
}
