// ABOUTME: Pagination controller driving "load more" as an Idle/Fetching state machine.
// ABOUTME: Single-flight guard, generation token for teardown, bounded fetch timeout.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/2389-research/socialify/internal/models"
)

// DefaultFetchTimeout bounds a single fetch when no timeout is configured.
const DefaultFetchTimeout = 10 * time.Second

var (
	// ErrFetchTimeout is wrapped into a FetchError when a fetch exceeds its deadline.
	ErrFetchTimeout = errors.New("feed fetch timed out")

	// ErrFetchInFlight is returned by LoadMore when a fetch is already outstanding.
	ErrFetchInFlight = errors.New("feed fetch already in flight")

	// ErrNotMounted is returned by LoadMore when the owning screen is torn down.
	ErrNotMounted = errors.New("feed screen is not mounted")
)

// FetchError is the failure outcome of a fetch.
type FetchError struct {
	Cursor Cursor
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load page %d: %v", e.Cursor.Page+1, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PageState is the pagination state.
type PageState int

const (
	PageIdle PageState = iota
	PageFetching
)

func (s PageState) String() string {
	switch s {
	case PageIdle:
		return "idle"
	case PageFetching:
		return "fetching"
	default:
		return "unknown"
	}
}

// Outcome is what Complete did with a fetch result.
type Outcome int

const (
	// OutcomeAppended means the batch was handed to the store.
	OutcomeAppended Outcome = iota
	// OutcomeFailed means the fetch failed; nothing was appended.
	OutcomeFailed
	// OutcomeStale means the result belonged to an earlier mount and was dropped.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// PagerConfig configures a Pager.
type PagerConfig struct {
	// Source supplies batches. Required.
	Source Source

	// Store receives appended batches. Required.
	Store *Store

	// FetchTimeout bounds each fetch. Zero uses DefaultFetchTimeout;
	// a negative value disables the bound.
	FetchTimeout time.Duration

	// Logger for pager events. Falls back to slog.Default() if nil.
	Logger *slog.Logger

	// Observer is notified on every transition. May be nil.
	Observer Observer
}

// Pager is the pagination controller. At most one fetch is outstanding at a time;
// requests made while Fetching are dropped, not queued.
type Pager struct {
	// commitMu is held from the generation check in Complete through the
	// append, so Reset and Detach cannot slip in between.
	commitMu sync.Mutex

	mu         sync.Mutex
	source     Source
	store      *Store
	timeout    time.Duration
	state      PageState
	fetches    int
	generation uint64
	mounted    bool
	lastErr    error
	log        *slog.Logger
	observe    Observer
}

// NewPager creates a mounted, Idle pager.
func NewPager(cfg PagerConfig) *Pager {
	timeout := cfg.FetchTimeout
	if timeout == 0 {
		timeout = DefaultFetchTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{
		source:     cfg.Source,
		store:      cfg.Store,
		timeout:    timeout,
		generation: 1,
		mounted:    true,
		log:        logger.WithGroup("pager"),
		observe:    cfg.Observer,
	}
}

// Fetch is a started fetch. Run performs the suspended work; its result must
// be handed back to Pager.Complete on the event loop.
type Fetch struct {
	generation uint64
	cursor     Cursor
	source     Source
	timeout    time.Duration
}

// Cursor returns the position this fetch was started at.
func (f *Fetch) Cursor() Cursor {
	return f.cursor
}

// FetchResult carries a finished fetch back to the pager.
type FetchResult struct {
	Generation uint64
	Cursor     Cursor
	Batch      []models.Post
	Err        error
}

// Run fetches the next batch, bounded by the pager's timeout.
// Failures are returned as a *FetchError in the result.
func (f *Fetch) Run(ctx context.Context) FetchResult {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	res := FetchResult{Generation: f.generation, Cursor: f.cursor}
	batch, err := f.source.FetchNextBatch(ctx, f.cursor)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", ErrFetchTimeout, f.timeout)
		}
		res.Err = &FetchError{Cursor: f.cursor, Err: err}
		return res
	}
	res.Batch = batch
	return res
}

// RequestMore starts a fetch if the pager is Idle and mounted. Returns nil when
// the request is dropped by the single-flight guard.
func (p *Pager) RequestMore() *Fetch {
	p.mu.Lock()
	if !p.mounted || p.state == PageFetching {
		p.mu.Unlock()
		p.log.Debug("load more dropped", "state", p.State().String())
		return nil
	}
	p.state = PageFetching
	f := &Fetch{
		generation: p.generation,
		cursor:     Cursor{Page: p.fetches, Offset: p.store.Loaded()},
		source:     p.source,
		timeout:    p.timeout,
	}
	p.mu.Unlock()

	p.log.Debug("fetch started", "page", f.cursor.Page, "offset", f.cursor.Offset)
	p.observe.emit(Event{Kind: EventFetchStarted, Cursor: f.cursor})
	return f
}

// Complete applies a fetch result. Stale results are dropped without touching
// any state. Failures return the pager to Idle with nothing appended. Success
// appends the batch and returns to Idle. The second value is the number of
// posts inserted.
func (p *Pager) Complete(res FetchResult) (Outcome, int) {
	p.commitMu.Lock()
	p.mu.Lock()
	if !p.mounted || res.Generation != p.generation {
		p.mu.Unlock()
		p.commitMu.Unlock()
		p.log.Debug("stale fetch dropped", "page", res.Cursor.Page)
		p.observe.emit(Event{Kind: EventFetchStale, Cursor: res.Cursor})
		return OutcomeStale, 0
	}

	if res.Err != nil {
		p.state = PageIdle
		p.lastErr = res.Err
		p.mu.Unlock()
		p.commitMu.Unlock()
		p.log.Warn("fetch failed", "page", res.Cursor.Page, "error", res.Err)
		p.observe.emit(Event{Kind: EventFetchFailed, Cursor: res.Cursor, Err: res.Err})
		return OutcomeFailed, 0
	}
	store := p.store
	p.mu.Unlock()

	// Still Fetching while appending, so no second fetch can interleave.
	inserted := store.Append(res.Batch)

	p.mu.Lock()
	p.state = PageIdle
	p.fetches++
	p.lastErr = nil
	p.mu.Unlock()
	p.commitMu.Unlock()

	p.log.Debug("fetch completed", "page", res.Cursor.Page, "inserted", inserted)
	p.observe.emit(Event{Kind: EventFetchCompleted, Cursor: res.Cursor, Count: inserted})
	return OutcomeAppended, inserted
}

// LoadMore runs a whole fetch synchronously, for callers without an event loop.
func (p *Pager) LoadMore(ctx context.Context) (int, error) {
	f := p.RequestMore()
	if f == nil {
		if !p.Mounted() {
			return 0, ErrNotMounted
		}
		return 0, ErrFetchInFlight
	}

	res := f.Run(ctx)
	switch outcome, inserted := p.Complete(res); outcome {
	case OutcomeFailed:
		return 0, res.Err
	case OutcomeStale:
		return 0, ErrNotMounted
	default:
		return inserted, nil
	}
}

// Reset returns the pager to a freshly mounted Idle state. Any outstanding
// fetch becomes stale.
func (p *Pager) Reset() {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.state = PageIdle
	p.fetches = 0
	p.lastErr = nil
	p.mounted = true
}

// Detach tears the pager down. Outstanding fetches complete as no-ops and
// further requests are dropped until Reset.
func (p *Pager) Detach() {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.state = PageIdle
	p.mounted = false
}

// State returns the current pagination state.
func (p *Pager) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Fetches returns the number of successfully completed fetches since mount.
func (p *Pager) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

// LastError returns the most recent fetch failure, cleared by the next success.
func (p *Pager) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Mounted reports whether the pager accepts requests.
func (p *Pager) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}
