package store

import (
	"errors"
	"sync"
	"time"

	"github.com/weatherapp/forecast/internal/weather"
)

// ErrNotFound means there is no snapshot to return for the requested location
// or time window.
var ErrNotFound = errors.New("no forecast history for location")

// retention bounds how much history is kept per location. Zero disables a
// bound.
type retention struct {
	count int
	age   time.Duration
}

// apply trims snaps, oldest first, to the configured bounds. The last entry
// survives even when it is older than age.
func (r retention) apply(snaps []weather.Snapshot, now time.Time) []weather.Snapshot {
	if r.count > 0 && len(snaps) > r.count {
		snaps = snaps[len(snaps)-r.count:]
	}
	if r.age <= 0 {
		return snaps
	}
	cutoff := now.Add(-r.age)
	keep := len(snaps) - 1
	for i, snap := range snaps {
		if !snap.FetchedAt.Before(cutoff) {
			keep = i
			break
		}
	}
	return snaps[keep:]
}

// MemoryStore keeps fetched forecasts per coordinates key in process memory.
// It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	byPlace map[string][]weather.Snapshot
	limits  retention
	now     func() time.Time
}

// NewMemoryStore returns an empty store keeping at most maxHistory snapshots
// no older than maxAge per location. Non-positive values mean unbounded.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		byPlace: map[string][]weather.Snapshot{},
		limits:  retention{count: maxHistory, age: maxAge},
		now:     time.Now,
	}
}

func (s *MemoryStore) SaveSnapshot(snapshot weather.Snapshot) {
	key := snapshot.Coordinates.Key()

	s.mu.Lock()
	s.byPlace[key] = s.limits.apply(append(s.byPlace[key], snapshot), s.now())
	s.mu.Unlock()
}

func (s *MemoryStore) GetLatest(coords weather.Coordinates) (weather.Snapshot, error) {
	snaps := s.snapshots(coords)
	if len(snaps) == 0 {
		return weather.Snapshot{}, ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}

// GetRange returns the snapshots whose FetchedAt falls in [from, to], in
// fetch order.
func (s *MemoryStore) GetRange(coords weather.Coordinates, from, to time.Time) ([]weather.Snapshot, error) {
	var out []weather.Snapshot
	for _, snap := range s.snapshots(coords) {
		if snap.FetchedAt.Before(from) || snap.FetchedAt.After(to) {
			continue
		}
		out = append(out, snap)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// snapshots returns the stored history for coords. The returned slice must
// not be modified; SaveSnapshot only ever appends or reslices.
func (s *MemoryStore) snapshots(coords weather.Coordinates) []weather.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byPlace[coords.Key()]
}

var _ weather.Store = (*MemoryStore)(nil)
