package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/sync/errgroup"

	"github.com/weatherapp/forecast/internal/weather"
)

const (
	jobTimeout  = 60 * time.Second
	parallelism = 4
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, coords weather.Coordinates) (weather.ForecastState, error)
}

// Scheduler periodically re-requests forecasts for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	locations []weather.Coordinates
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Coordinates, interval time.Duration, service Refresher) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 || s.interval <= 0 {
		slog.Info("scheduler: nothing to schedule", "locations", len(s.locations), "interval", s.interval)
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes every location and returns the number that failed.
// Failures are logged; one location failing does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	slog.Info("scheduler: running forecast refresh", "locations", len(s.locations))

	failed := make([]bool, len(s.locations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, loc := range s.locations {
		g.Go(func() error {
			if _, err := s.service.Refresh(ctx, loc); err != nil {
				slog.Warn("scheduler: refresh failed", "key", loc.Key(), "error", err)
				failed[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	slog.Info("scheduler: completed forecast refresh", "failed", n)
	return n
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
