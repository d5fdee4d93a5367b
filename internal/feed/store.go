// ABOUTME: Ordered, append-only feed post collection with dedupe by post id.
// ABOUTME: First write wins; optional retention cap evicts the oldest entries.
package feed

import (
	"log/slog"
	"sync"

	"github.com/2389-research/socialify/internal/models"
)

// StoreConfig configures a Store.
type StoreConfig struct {
	// MaxPosts caps the number of retained posts. Zero means unbounded.
	MaxPosts int

	// Logger for store events. Falls back to slog.Default() if nil.
	Logger *slog.Logger

	// Observer is notified after every mutation. May be nil.
	Observer Observer
}

// Store is the ordered post collection backing the feed screen.
// Insertion order is feed order; no two entries share an ID.
type Store struct {
	mu       sync.RWMutex
	posts    []models.Post
	index    map[string]struct{}
	maxPosts int
	loaded   int
	log      *slog.Logger
	observe  Observer
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.MaxPosts
	if limit < 0 {
		limit = 0
	}
	return &Store{
		index:    make(map[string]struct{}),
		maxPosts: limit,
		log:      logger.WithGroup("store"),
		observe:  cfg.Observer,
	}
}

// Initialize replaces the current contents with seed. Duplicate ids within
// the seed keep their first occurrence.
func (s *Store) Initialize(seed []models.Post) {
	s.mu.Lock()
	s.posts = make([]models.Post, 0, len(seed))
	s.index = make(map[string]struct{}, len(seed))
	inserted, skipped := s.insertLocked(seed)
	s.loaded = inserted
	evicted := s.evictLocked()
	n := len(s.posts)
	s.mu.Unlock()

	s.report(n, skipped, evicted)
}

// Append inserts each post of batch at the tail, in order, unless its ID is
// already present. Returns the number of posts actually inserted.
func (s *Store) Append(batch []models.Post) int {
	s.mu.Lock()
	inserted, skipped := s.insertLocked(batch)
	s.loaded += inserted
	evicted := s.evictLocked()
	s.mu.Unlock()

	s.report(inserted, skipped, evicted)
	return inserted
}

// All returns a copy of the posts in feed order.
func (s *Store) All() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Len returns the number of stored posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Loaded returns the number of posts inserted since Initialize, counting
// posts that have since been evicted.
func (s *Store) Loaded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Contains reports whether a post with id is stored.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Get returns the post with id.
func (s *Store) Get(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.index[id]; !ok {
		return models.Post{}, false
	}
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// Must be called with s.mu held.
func (s *Store) insertLocked(batch []models.Post) (int, []string) {
	inserted := 0
	var skipped []string
	for _, p := range batch {
		if _, ok := s.index[p.ID]; ok {
			skipped = append(skipped, p.ID)
			continue
		}
		s.index[p.ID] = struct{}{}
		s.posts = append(s.posts, p)
		inserted++
	}
	return inserted, skipped
}

// evictLocked drops the oldest posts beyond the retention cap.
// Must be called with s.mu held.
func (s *Store) evictLocked() []string {
	if s.maxPosts == 0 || len(s.posts) <= s.maxPosts {
		return nil
	}
	over := len(s.posts) - s.maxPosts
	evicted := make([]string, 0, over)
	for _, p := range s.posts[:over] {
		delete(s.index, p.ID)
		evicted = append(evicted, p.ID)
	}
	s.posts = append([]models.Post(nil), s.posts[over:]...)
	return evicted
}

func (s *Store) report(inserted int, skipped, evicted []string) {
	if len(skipped) > 0 {
		s.log.Debug("duplicate posts skipped", "count", len(skipped), "ids", skipped)
		s.observe.emit(Event{Kind: EventDuplicatesSkipped, IDs: skipped})
	}
	if len(evicted) > 0 {
		s.log.Debug("posts evicted", "count", len(evicted))
		s.observe.emit(Event{Kind: EventEvicted, IDs: evicted})
	}
	s.observe.emit(Event{Kind: EventStoreChanged, Count: inserted})
}
