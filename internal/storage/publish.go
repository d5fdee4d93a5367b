// ABOUTME: Publishes posts to the local store and mirrors them to the remote API.
// ABOUTME: Remote failures are reported as a SyncError without undoing the local write.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/2389-research/socialify/internal/models"
)

// ErrNotLoggedIn is returned when publishing without a stored identity.
var ErrNotLoggedIn = errors.New("not logged in")

// SyncError means the post was written locally but the remote copy failed.
type SyncError struct {
	PostID uuid.UUID
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("post %s created locally but remote sync failed: %v", e.PostID.String()[:8], e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Publisher creates posts as the logged-in identity.
type Publisher struct {
	store  SocialStore
	remote *RemoteClient
	log    *slog.Logger
}

// NewPublisher creates a publisher. remote may be nil for local-only use.
func NewPublisher(store SocialStore, remote *RemoteClient, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, remote: remote, log: logger.WithGroup("publish")}
}

// Publish writes a new post. When the local write succeeds but the remote
// sync fails, the post is returned together with a *SyncError.
func (p *Publisher) Publish(ctx context.Context, content string, tags []string, parentID *uuid.UUID) (*models.SocialPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	identity, err := p.store.GetIdentity()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	if identity == "" {
		return nil, ErrNotLoggedIn
	}

	post := models.NewSocialPost(identity, content, tags, parentID)
	if prof, err := p.store.GetProfile(); err == nil {
		post.AvatarURL = prof.AvatarURL
	}
	if err := p.store.CreatePost(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	p.log.Info("post created", "id", post.ID.String(), "author", identity)

	if p.remote == nil {
		return post, nil
	}
	if err := p.remote.CreatePost(ctx, post); err != nil {
		p.log.Warn("remote sync failed", "id", post.ID.String(), "error", err)
		return post, &SyncError{PostID: post.ID, Err: err}
	}
	if err := p.store.MarkSynced(post.ID.String()); err != nil {
		p.log.Warn("failed to mark post synced", "id", post.ID.String(), "error", err)
	} else {
		post.Synced = true
	}
	return post, nil
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
