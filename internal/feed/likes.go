// ABOUTME: Per-post local like overlay layered over server-reported like counts.
// ABOUTME: Toggles are local and synchronous; absent entries read as not liked.
package feed

import (
	"sync"

	"github.com/2389-research/socialify/internal/models"
)

// Likes maps post ids to the viewer's local liked state. It never touches
// the Store and tolerates ids the Store does not hold.
type Likes struct {
	mu      sync.RWMutex
	liked   map[string]bool
	observe Observer
}

// NewLikes creates an empty overlay.
func NewLikes(observer Observer) *Likes {
	return &Likes{
		liked:   make(map[string]bool),
		observe: observer,
	}
}

// Toggle flips the liked state for id and returns the new value.
func (l *Likes) Toggle(id string) bool {
	l.mu.Lock()
	next := !l.liked[id]
	l.liked[id] = next
	l.mu.Unlock()

	l.observe.emit(Event{Kind: EventLikeToggled, PostID: id, Liked: next})
	return next
}

// IsLiked returns the overlay value for id, or false if absent.
func (l *Likes) IsLiked(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.liked[id]
}

// Count returns the like count to display for p: the server baseline plus one
// when the viewer has liked it locally.
func (l *Likes) Count(p models.Post) int {
	if l.IsLiked(p.ID) {
		return p.Likes + 1
	}
	return p.Likes
}

// Forget drops the overlay entry for id.
func (l *Likes) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.liked, id)
}

// Len returns the number of overlay entries, liked or not.
func (l *Likes) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.liked)
}

// Reset clears every entry.
func (l *Likes) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.liked = make(map[string]bool)
}
