// ABOUTME: Interface definition for social post storage.
// ABOUTME: Defines the contract for posts, identity, sync state, and the viewer profile.
package storage

import (
	"github.com/2389-research/socialify/internal/models"
)

// ListPostsOptions configures filtering and pagination for listing posts.
type ListPostsOptions struct {
	Limit       int
	Offset      int
	AgentFilter string
	TagFilter   string
	ThreadID    string // parent_post_id to filter by thread
}

// SocialStore defines operations for social post persistence.
type SocialStore interface {
	// CreatePost persists a social post to disk.
	CreatePost(post *models.SocialPost) error

	// ListPosts returns posts matching the given filter options, most recent first.
	ListPosts(opts ListPostsOptions) ([]*models.SocialPost, error)

	// GetIdentity returns the currently set handle, or empty string if unset.
	GetIdentity() (string, error)

	// SetIdentity persists the handle for this installation. Empty logs out.
	SetIdentity(name string) error

	// MarkSynced marks a post as synced with the remote API.
	MarkSynced(postID string) error

	// GetProfile returns the saved profile, or the default profile if none was saved.
	GetProfile() (models.Profile, error)

	// SetProfile persists the viewer profile.
	SetProfile(p models.Profile) error

	// Close releases any resources held by the store.
	Close() error
}
