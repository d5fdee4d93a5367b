// ABOUTME: Core data models for feed items, stored social posts, and the viewer profile.
// ABOUTME: Provides constructor functions, conversions, and relative time labels.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Post is an immutable feed item as the feed screen renders it.
type Post struct {
	ID        string
	Author    string
	AvatarURL string
	TimeLabel string // relative label, e.g. "2h ago"
	MediaURL  string
	Caption   string
	Likes     int // server-reported baseline
	Comments  int // server-reported baseline
}

// SocialPost represents a social media post as persisted by the social store.
type SocialPost struct {
	ID           uuid.UUID
	AuthorName   string
	Content      string
	Tags         []string
	CreatedAt    time.Time
	ParentPostID *uuid.UUID
	Synced       bool
	AvatarURL    string
	MediaURL     string
	Likes        int
	Comments     int
}

// NewSocialPost creates a social post with generated UUID and timestamp.
func NewSocialPost(authorName, content string, tags []string, parentPostID *uuid.UUID) *SocialPost {
	return &SocialPost{
		ID:           uuid.New(),
		AuthorName:   authorName,
		Content:      content,
		Tags:         tags,
		CreatedAt:    time.Now(),
		ParentPostID: parentPostID,
		Synced:       false,
	}
}

// FeedPost converts a stored post into a feed item, labelling its age relative to now.
func (p *SocialPost) FeedPost(now time.Time) Post {
	return Post{
		ID:        p.ID.String(),
		Author:    p.AuthorName,
		AvatarURL: p.AvatarURL,
		TimeLabel: RelativeTime(p.CreatedAt, now),
		MediaURL:  p.MediaURL,
		Caption:   p.Content,
		Likes:     p.Likes,
		Comments:  p.Comments,
	}
}

// RelativeTime renders the age of t as a short label.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}

// Profile is the local viewer's editable profile.
type Profile struct {
	FullName  string `yaml:"full_name"`
	Email     string `yaml:"email"`
	AvatarURL string `yaml:"avatar_url"`
}

// DefaultProfile is used until the viewer saves their own.
func DefaultProfile() Profile {
	return Profile{
		FullName:  "Jane Doe",
		Email:     "jane.doe@example.com",
		AvatarURL: "https://randomuser.me/api/portraits/women/44.jpg",
	}
}
