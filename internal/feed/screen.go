// ABOUTME: Feed screen composition owning one store, pager, like overlay and gate.
// ABOUTME: Handles mount/unmount lifecycle and produces the renderer-visible snapshot.
package feed

import (
	"log/slog"
	"time"

	"github.com/2389-research/socialify/internal/models"
)

// DefaultPrefetchThreshold is the fraction of the viewport below which the
// unseen remainder of the list triggers a fetch.
const DefaultPrefetchThreshold = 0.5

// ScreenConfig configures a Screen.
type ScreenConfig struct {
	Source       Source
	Auth         AuthChecker
	Nav          Navigator
	FetchTimeout time.Duration
	MaxPosts     int

	// Logger for all components. Falls back to slog.Default() if nil.
	Logger *slog.Logger

	// Observer receives every component's events. May be nil.
	Observer Observer
}

// Screen is a mounted feed screen. It exclusively owns its Store and Pager.
type Screen struct {
	store *Store
	pager *Pager
	likes *Likes
	gate  *Gate
	log   *slog.Logger
}

// NewScreen wires the four components together. The screen starts mounted
// and empty; call Mount to seed it.
func NewScreen(cfg ScreenConfig) *Screen {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.WithGroup("feed")

	s := &Screen{log: logger}
	observe := func(e Event) {
		if e.Kind == EventEvicted {
			for _, id := range e.IDs {
				s.likes.Forget(id)
			}
		}
		cfg.Observer.emit(e)
	}

	s.likes = NewLikes(observe)
	s.store = NewStore(StoreConfig{
		MaxPosts: cfg.MaxPosts,
		Logger:   logger,
		Observer: observe,
	})
	s.pager = NewPager(PagerConfig{
		Source:       cfg.Source,
		Store:        s.store,
		FetchTimeout: cfg.FetchTimeout,
		Logger:       logger,
		Observer:     observe,
	})
	s.gate = NewGate(cfg.Auth, cfg.Nav, logger, observe)
	return s
}

// Mount resets every component and seeds the store.
func (s *Screen) Mount(seed []models.Post) {
	s.pager.Reset()
	s.gate.Reset()
	s.likes.Reset()
	s.store.Initialize(seed)
	s.log.Debug("screen mounted", "posts", s.store.Len())
}

// Unmount tears the screen down. A fetch still in flight completes as a no-op.
func (s *Screen) Unmount() {
	s.pager.Detach()
	s.gate.Reset()
	s.log.Debug("screen unmounted")
}

func (s *Screen) Store() *Store { return s.store }
func (s *Screen) Pager() *Pager { return s.pager }
func (s *Screen) Likes() *Likes { return s.likes }
func (s *Screen) Gate() *Gate   { return s.gate }

// PostView is a post as rendered: the stored post plus the overlay state.
type PostView struct {
	models.Post
	Liked        bool
	DisplayLikes int
}

// Snapshot is the renderer-visible state of the whole screen.
type Snapshot struct {
	Posts   []PostView
	Page    PageState
	Gate    GateState
	Fetches int
	LastErr error
}

// Snapshot collects the current state of every component.
func (s *Screen) Snapshot() Snapshot {
	posts := s.store.All()
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{
			Post:         p,
			Liked:        s.likes.IsLiked(p.ID),
			DisplayLikes: s.likes.Count(p),
		}
	}
	return Snapshot{
		Posts:   views,
		Page:    s.pager.State(),
		Gate:    s.gate.State(),
		Fetches: s.pager.Fetches(),
		LastErr: s.pager.LastError(),
	}
}

// NearEnd reports whether the unseen remainder of the list has fallen below
// threshold of the viewport height. A non-positive threshold uses
// DefaultPrefetchThreshold.
func NearEnd(remaining, viewport int, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultPrefetchThreshold
	}
	if viewport <= 0 {
		return remaining <= 0
	}
	return float64(remaining) < threshold*float64(viewport)
}
