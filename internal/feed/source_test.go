// ABOUTME: Tests for feed sources.
// ABOUTME: Covers the synthetic generator, local store paging and remote paging.
package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

func TestSyntheticSourceFabricatesOnePost(t *testing.T) {
	src := NewSyntheticSource(0)

	batch, err := src.FetchNextBatch(context.Background(), Cursor{Page: 0, Offset: 2})
	if err != nil {
		t.Fatalf("FetchNextBatch error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected 1 post, got %d", len(batch))
	}
	p := batch[0]
	if p.ID != "3" {
		t.Errorf("ID: got %q, want %q", p.ID, "3")
	}
	if p.Author != "new_user" || p.Caption != "New post loaded!" || p.TimeLabel != "Just now" {
		t.Errorf("unexpected post: %+v", p)
	}
	if p.Likes != 0 || p.Comments != 0 {
		t.Errorf("expected zero counts, got %d/%d", p.Likes, p.Comments)
	}
}

func TestSyntheticSourceHonorsCancellation(t *testing.T) {
	src := NewSyntheticSource(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.FetchNextBatch(ctx, Cursor{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSyntheticSourceDefaultLatency(t *testing.T) {
	if got := NewSyntheticSource(-1).Latency; got != DefaultLatency {
		t.Errorf("got %s, want %s", got, DefaultLatency)
	}
}

func TestSeedPosts(t *testing.T) {
	seed := SeedPosts()
	if len(seed) != 2 {
		t.Fatalf("expected 2 seed posts, got %d", len(seed))
	}
	if seed[0].ID != "1" || seed[0].Author != "john_doe" || seed[0].Likes != 23 {
		t.Errorf("unexpected first seed: %+v", seed[0])
	}
	if seed[1].ID != "2" || seed[1].Author != "jane_smith" || seed[1].Comments != 12 {
		t.Errorf("unexpected second seed: %+v", seed[1])
	}
}

func TestStoreSourcePages(t *testing.T) {
	store, err := storage.NewSocialMDStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSocialMDStore error: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		post := &models.SocialPost{
			ID:         uuid.New(),
			AuthorName: "agent",
			Content:    "post",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.CreatePost(post); err != nil {
			t.Fatalf("CreatePost error: %v", err)
		}
	}

	src := NewStoreSource(store, 2)
	seen := map[string]bool{}
	for _, offset := range []int{0, 2, 4} {
		batch, err := src.FetchNextBatch(context.Background(), Cursor{Offset: offset})
		if err != nil {
			t.Fatalf("FetchNextBatch(%d) error: %v", offset, err)
		}
		for _, p := range batch {
			if seen[p.ID] {
				t.Errorf("post %s returned twice", p.ID)
			}
			seen[p.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct posts, got %d", len(seen))
	}
}

type fakeRemote struct {
	opts  storage.ListPostsOptions
	posts []*models.SocialPost
	err   error
}

func (f *fakeRemote) ReadPosts(_ context.Context, opts storage.ListPostsOptions) ([]*models.SocialPost, error) {
	f.opts = opts
	return f.posts, f.err
}

func TestRemoteSourceRequestsPage(t *testing.T) {
	remote := &fakeRemote{posts: []*models.SocialPost{
		models.NewSocialPost("jane", "hello", nil, nil),
	}}
	src := NewRemoteSource(remote, 0)

	batch, err := src.FetchNextBatch(context.Background(), Cursor{Page: 1, Offset: 10})
	if err != nil {
		t.Fatalf("FetchNextBatch error: %v", err)
	}
	if remote.opts.Offset != 10 || remote.opts.Limit != DefaultPageSize {
		t.Errorf("unexpected options: %+v", remote.opts)
	}
	if len(batch) != 1 || batch[0].Author != "jane" || batch[0].Caption != "hello" {
		t.Errorf("unexpected batch: %+v", batch)
	}
}

func TestRemoteSourcePropagatesError(t *testing.T) {
	src := NewRemoteSource(&fakeRemote{err: errBoom}, 5)
	if _, err := src.FetchNextBatch(context.Background(), Cursor{}); !errors.Is(err, errBoom) {
		t.Errorf("got %v, want errBoom", err)
	}
}
