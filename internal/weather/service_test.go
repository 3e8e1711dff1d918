package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingStore struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (s *recordingStore) SaveSnapshot(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
}

func (s *recordingStore) GetLatest(coords Coordinates) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return Snapshot{}, errors.New("empty")
	}
	return s.snapshots[len(s.snapshots)-1], nil
}

func (s *recordingStore) GetRange(coords Coordinates, from, to time.Time) ([]Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Snapshot(nil), s.snapshots...), nil
}

func cetDocument() *ForecastDocument {
	return &ForecastDocument{
		UTCOffsetSeconds:     ptr(3600),
		TimezoneAbbreviation: ptr("CET"),
		Hourly:               hourlyFixture("2025-01-18T14:00", "2025-01-18T15:00", "2025-01-19T09:00"),
		Daily: &Daily{
			Time:    strs("2025-01-18", "2025-01-19"),
			RainSum: floats(0.4, 0),
		},
	}
}

func TestServiceRefreshAndViews(t *testing.T) {
	// 13:30 UTC is 14:30 in the document's zone.
	now := time.Date(2025, 1, 18, 13, 30, 0, 0, time.UTC)
	st := &recordingStore{}
	svc := NewService(funcFetcher(func(ctx context.Context, coords Coordinates) (*ForecastDocument, error) {
		return cetDocument(), nil
	}), st, func() time.Time { return now })

	coords := Coordinates{Latitude: 52.52, Longitude: 13.41}
	if _, err := svc.State(coords); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}

	state, err := svc.Refresh(context.Background(), coords)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if state.Kind != StateSuccess {
		t.Fatalf("expected success, got %s", state.Kind)
	}

	buckets, diags, err := svc.Hourly(coords, "")
	if err != nil {
		t.Fatalf("hourly: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(buckets) != 2 || buckets[0].Time != "3 PM" || buckets[1].Day != DayTomorrow {
		t.Fatalf("unexpected buckets: %+v", buckets)
	}

	tomorrow, _, err := svc.Hourly(coords, DayTomorrow)
	if err != nil || len(tomorrow) != 1 {
		t.Fatalf("expected one Tomorrow bucket, got %+v (%v)", tomorrow, err)
	}

	rows, _, err := svc.Daily(coords)
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected two daily rows, got %+v (%v)", rows, err)
	}

	latest, err := svc.GetLatest(coords)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if latest.Coordinates != coords || latest.RequestID == "" || !latest.FetchedAt.Equal(now) {
		t.Fatalf("unexpected snapshot: %+v", latest)
	}
}

func TestServiceNotReady(t *testing.T) {
	svc := NewService(funcFetcher(func(ctx context.Context, coords Coordinates) (*ForecastDocument, error) {
		return nil, &FetchError{Message: "Failed to fetch weather data: dial tcp: timeout"}
	}), &recordingStore{}, nil)

	coords := Coordinates{Latitude: 1, Longitude: 1}
	state, err := svc.Refresh(context.Background(), coords)
	if err == nil {
		t.Fatalf("expected refresh error")
	}
	if state.Kind != StateError {
		t.Fatalf("expected error state, got %s", state.Kind)
	}

	if _, _, err := svc.Hourly(coords, ""); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if _, _, err := svc.Daily(coords); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestServiceRefreshHonoursContext(t *testing.T) {
	f := newGatedFetcher(1)
	svc := NewService(f, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := svc.Refresh(ctx, Coordinates{Latitude: 1})
	if !errors.Is(err, context.Canceled) || state.Kind != StateLoading {
		t.Fatalf("expected canceled loading, got %+v (%v)", state, err)
	}
	close(f.gates[1])
}

func TestServicePipelinePerLocation(t *testing.T) {
	svc := NewService(newGatedFetcher(), nil, nil)

	a := svc.Pipeline(Coordinates{Latitude: 10.00001, Longitude: 0})
	b := svc.Pipeline(Coordinates{Latitude: 10.00001, Longitude: 0})
	c := svc.Pipeline(Coordinates{Latitude: 10.00004, Longitude: 0})
	if a != b {
		t.Fatalf("expected identical coordinates to share a pipeline")
	}
	if a == c {
		t.Fatalf("expected nearby but distinct points to have distinct pipelines")
	}
}

// TestServiceNearbyPointsKeepSeparateState refreshes one point and checks a
// point a few metres away is left untouched.
func TestServiceNearbyPointsKeepSeparateState(t *testing.T) {
	svc := NewService(funcFetcher(func(ctx context.Context, coords Coordinates) (*ForecastDocument, error) {
		return &ForecastDocument{Latitude: ptr(coords.Latitude)}, nil
	}), &recordingStore{}, nil)

	a := Coordinates{Latitude: 10.00001, Longitude: 0}
	b := Coordinates{Latitude: 10.00004, Longitude: 0}
	svc.Pipeline(a)

	if _, err := svc.Refresh(context.Background(), b); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	st, err := svc.State(a)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.Kind != StateLoading {
		t.Fatalf("expected untouched point to stay loading, got %+v", st)
	}
	st, _ = svc.State(b)
	if st.Kind != StateSuccess || *st.Document.Latitude != 10.00004 {
		t.Fatalf("unexpected state for refreshed point: %+v", st)
	}
}

func TestCoordinatesKey(t *testing.T) {
	if got := (Coordinates{Latitude: 52.52, Longitude: -13.405}).Key(); got != "52.52:-13.405" {
		t.Fatalf("unexpected key %q", got)
	}
	if (Coordinates{Latitude: 10.00001}).Key() == (Coordinates{Latitude: 10.00004}).Key() {
		t.Fatalf("expected distinct keys for distinct points")
	}
}

func TestServiceLocalNow(t *testing.T) {
	// 23:30 UTC is already the next day in the document's +01:00 zone.
	now := time.Date(2025, 1, 18, 23, 30, 0, 0, time.UTC)
	svc := NewService(funcFetcher(func(ctx context.Context, coords Coordinates) (*ForecastDocument, error) {
		return cetDocument(), nil
	}), &recordingStore{}, func() time.Time { return now })

	coords := Coordinates{Latitude: 52.52, Longitude: 13.41}
	if _, err := svc.LocalNow(coords); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), coords); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	local, err := svc.LocalNow(coords)
	if err != nil {
		t.Fatalf("local now: %v", err)
	}
	if got := FormatDisplayDate(local); got != "19 January, 2025" {
		t.Fatalf("expected the document's calendar date, got %q", got)
	}
	if !local.Equal(now) {
		t.Fatalf("expected the same instant, got %s", local)
	}
}
