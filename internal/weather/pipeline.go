package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SuccessHook is called after a Success state has been published.
type SuccessHook func(coords Coordinates, requestID string, doc *ForecastDocument)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithFencing makes the pipeline discard completions of requests that have
// been superseded by a newer RequestForecast call. Without it, whichever
// fetch finishes last wins.
func WithFencing(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.fencing = enabled
	}
}

// WithFetchTimeout bounds each fetch in addition to the client's own timeouts.
func WithFetchTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.fetchTimeout = d
	}
}

// WithSuccessHook registers a callback for published Success states.
func WithSuccessHook(hook SuccessHook) PipelineOption {
	return func(p *Pipeline) {
		p.onSuccess = hook
	}
}

// WithBaseContext sets the parent context for outstanding fetches.
func WithBaseContext(ctx context.Context) PipelineOption {
	return func(p *Pipeline) {
		p.baseCtx = ctx
	}
}

// Pipeline is a single-writer state cell holding the latest ForecastState.
// It starts in Loading.
type Pipeline struct {
	fetcher      Fetcher
	fencing      bool
	fetchTimeout time.Duration
	onSuccess    SuccessHook
	baseCtx      context.Context

	mu        sync.Mutex
	state     ForecastState
	issued    uint64
	observers map[int]chan ForecastState
	nextObs   int
}

// NewPipeline creates a Pipeline in the Loading state.
func NewPipeline(fetcher Fetcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetcher:      fetcher,
		fetchTimeout: 90 * time.Second,
		baseCtx:      context.Background(),
		state:        Loading(),
		observers:    make(map[int]chan ForecastState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the latest published state.
func (p *Pipeline) State() ForecastState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers an observer. The returned channel immediately holds the
// latest state and afterwards always holds the most recent unread one; slow
// readers skip intermediate states. Call cancel to unsubscribe.
func (p *Pipeline) Subscribe() (<-chan ForecastState, func()) {
	ch := make(chan ForecastState, 1)

	p.mu.Lock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = ch
	ch <- p.state
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.observers, id)
			p.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// RequestForecast publishes Loading, then fetches in the background and
// publishes the outcome. An outstanding fetch is never cancelled by a newer
// call. The returned channel receives the terminal state this call produced,
// whether or not it was published.
func (p *Pipeline) RequestForecast(latitude, longitude float64) <-chan ForecastState {
	coords := Coordinates{Latitude: latitude, Longitude: longitude}
	requestID := newRequestID()

	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.publishLocked(Loading())
	p.mu.Unlock()

	slog.Debug("forecast requested", "request_id", requestID, "seq", seq,
		"latitude", latitude, "longitude", longitude, "provider", p.fetcher.Name())

	done := make(chan ForecastState, 1)
	go func() {
		st := p.fetch(coords, requestID)
		p.complete(coords, requestID, seq, st)
		done <- st
		close(done)
	}()
	return done
}

func (p *Pipeline) fetch(coords Coordinates, requestID string) (st ForecastState) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("forecast fetch panicked", "request_id", requestID, "panic", r)
			st = Failed(fmt.Sprintf("Failed to fetch weather data: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(p.baseCtx, p.fetchTimeout)
	defer cancel()

	doc, err := p.fetcher.FetchForecast(ctx, coords)
	if err != nil {
		return Failed(err.Error())
	}
	if doc == nil {
		return Failed("empty forecast response")
	}
	return Success(doc)
}

func (p *Pipeline) complete(coords Coordinates, requestID string, seq uint64, st ForecastState) {
	p.mu.Lock()
	if p.fencing && seq != p.issued {
		latest := p.issued
		p.mu.Unlock()
		slog.Info("discarding stale forecast completion", "request_id", requestID,
			"seq", seq, "latest_seq", latest, "state", st.Kind)
		return
	}
	p.publishLocked(st)
	p.mu.Unlock()

	if st.Kind == StateError {
		slog.Warn("forecast fetch failed", "request_id", requestID, "seq", seq, "message", st.Message)
		return
	}
	slog.Info("forecast updated", "request_id", requestID, "seq", seq, "key", coords.Key())
	if p.onSuccess != nil {
		p.onSuccess(coords, requestID, st.Document)
	}
}

// publishLocked swaps the state and notifies observers. p.mu must be held.
func (p *Pipeline) publishLocked(st ForecastState) {
	p.state = st
	for _, ch := range p.observers {
		select {
		case ch <- st:
		default:
			// Replace the unread value so the observer sees the latest state.
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
