// ABOUTME: Feed sources that supply the next batch of posts for pagination.
// ABOUTME: Synthetic generator, local social store pager, and remote API pager.
package feed

import (
	"context"
	"strconv"
	"time"

	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

// DefaultLatency is the simulated fetch delay of the synthetic source.
const DefaultLatency = 1500 * time.Millisecond

// DefaultPageSize is the batch size requested from paged sources.
const DefaultPageSize = 10

// Cursor locates the next batch. Page is the number of completed fetches when
// the request was made; Offset is the number of posts loaded since mount,
// including any the store has since evicted.
type Cursor struct {
	Page   int
	Offset int
}

// Source supplies batches of posts. Implementations must honor ctx cancellation.
type Source interface {
	FetchNextBatch(ctx context.Context, cursor Cursor) ([]models.Post, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, cursor Cursor) ([]models.Post, error)

// FetchNextBatch calls f.
func (f SourceFunc) FetchNextBatch(ctx context.Context, cursor Cursor) ([]models.Post, error) {
	return f(ctx, cursor)
}

// SeedPosts returns the posts the feed screen mounts with when using the synthetic source.
func SeedPosts() []models.Post {
	return []models.Post{
		{
			ID:        "1",
			Author:    "john_doe",
			AvatarURL: "https://randomuser.me/api/portraits/men/1.jpg",
			TimeLabel: "2h ago",
			MediaURL:  "https://picsum.photos/id/1011/400/300",
			Caption:   "What a beautiful day!",
			Likes:     23,
			Comments:  5,
		},
		{
			ID:        "2",
			Author:    "jane_smith",
			AvatarURL: "https://randomuser.me/api/portraits/women/2.jpg",
			TimeLabel: "4h ago",
			MediaURL:  "https://picsum.photos/id/1015/400/300",
			Caption:   "Loving this view!",
			Likes:     45,
			Comments:  12,
		},
	}
}

// SyntheticSource fabricates exactly one post per fetch after a fixed latency.
// It never fails on its own; only cancellation interrupts it.
type SyntheticSource struct {
	Latency time.Duration
}

// NewSyntheticSource creates a synthetic source. A negative latency uses DefaultLatency.
func NewSyntheticSource(latency time.Duration) *SyntheticSource {
	if latency < 0 {
		latency = DefaultLatency
	}
	return &SyntheticSource{Latency: latency}
}

// FetchNextBatch waits for the latency and returns one new post whose ID
// follows the posts already loaded.
func (s *SyntheticSource) FetchNextBatch(ctx context.Context, cursor Cursor) ([]models.Post, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []models.Post{{
		ID:        strconv.Itoa(cursor.Offset + 1),
		Author:    "new_user",
		AvatarURL: "https://randomuser.me/api/portraits/men/10.jpg",
		TimeLabel: "Just now",
		MediaURL:  "https://picsum.photos/id/1020/400/300",
		Caption:   "New post loaded!",
	}}, nil
}

// PostLister lists stored posts.
type PostLister interface {
	ListPosts(opts storage.ListPostsOptions) ([]*models.SocialPost, error)
}

// StoreSource pages posts out of the local social store.
type StoreSource struct {
	store    PostLister
	pageSize int
	nowFn    func() time.Time
}

// NewStoreSource creates a source backed by a local post store.
func NewStoreSource(store PostLister, pageSize int) *StoreSource {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &StoreSource{store: store, pageSize: pageSize, nowFn: time.Now}
}

// FetchNextBatch returns the page starting at cursor.Offset.
func (s *StoreSource) FetchNextBatch(ctx context.Context, cursor Cursor) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	posts, err := s.store.ListPosts(storage.ListPostsOptions{
		Limit:  s.pageSize,
		Offset: cursor.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toFeedPosts(posts, s.nowFn()), nil
}

// RemoteReader pages posts from the remote API.
type RemoteReader interface {
	ReadPosts(ctx context.Context, opts storage.ListPostsOptions) ([]*models.SocialPost, error)
}

// RemoteSource pages posts from the remote social API.
type RemoteSource struct {
	client   RemoteReader
	pageSize int
	nowFn    func() time.Time
}

// NewRemoteSource creates a source backed by the remote API client.
func NewRemoteSource(client RemoteReader, pageSize int) *RemoteSource {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &RemoteSource{client: client, pageSize: pageSize, nowFn: time.Now}
}

// FetchNextBatch requests the page starting at cursor.Offset.
func (s *RemoteSource) FetchNextBatch(ctx context.Context, cursor Cursor) ([]models.Post, error) {
	posts, err := s.client.ReadPosts(ctx, storage.ListPostsOptions{
		Limit:  s.pageSize,
		Offset: cursor.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toFeedPosts(posts, s.nowFn()), nil
}

func toFeedPosts(posts []*models.SocialPost, now time.Time) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.FeedPost(now))
	}
	return out
}
