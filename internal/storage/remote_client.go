// ABOUTME: HTTP client for the remote social posts API.
// ABOUTME: Syncs local posts to the remote API and pages the remote feed.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/socialify/internal/models"
)

// RemoteClient talks to the remote social posts API.
type RemoteClient struct {
	apiURL string
	apiKey string
	teamID string
	client *http.Client
}

// NewRemoteClient creates a remote client with the given credentials.
func NewRemoteClient(apiURL, apiKey, teamID string) *RemoteClient {
	return &RemoteClient{
		apiURL: NormalizeAPIURL(apiURL),
		apiKey: apiKey,
		teamID: teamID,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// NormalizeAPIURL strips trailing slashes and a trailing /v1 segment.
func NormalizeAPIURL(apiURL string) string {
	apiURL = strings.TrimRight(apiURL, "/")
	return strings.TrimSuffix(apiURL, "/v1")
}

// RemotePostPayload is the JSON body accepted by POST /teams/{teamID}/posts.
type RemotePostPayload struct {
	Content      string   `json:"content"`
	AuthorName   string   `json:"author"`
	Tags         []string `json:"tags,omitempty"`
	ParentPostID string   `json:"parentPostId,omitempty"`
	Avatar       string   `json:"avatar,omitempty"`
	Media        string   `json:"media,omitempty"`
}

// RemoteTimestamp represents a Firestore timestamp with _seconds and _nanoseconds.
type RemoteTimestamp struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

// RemotePost maps a single post in the remote API response.
type RemotePost struct {
	PostID       string          `json:"postId"`
	Author       string          `json:"author"`
	Content      string          `json:"content"`
	Tags         []string        `json:"tags"`
	CreatedAt    RemoteTimestamp `json:"createdAt"`
	ParentPostID string          `json:"parentPostId"`
	Avatar       string          `json:"avatar,omitempty"`
	Media        string          `json:"media,omitempty"`
	Likes        int             `json:"likes"`
	Comments     int             `json:"comments"`
}

// RemoteListResponse is the envelope returned by GET /teams/{teamID}/posts.
type RemoteListResponse struct {
	Posts      []RemotePost `json:"posts"`
	TotalCount int          `json:"totalCount"`
}

// ToRemotePost converts a stored post into its wire representation.
func ToRemotePost(p *models.SocialPost) RemotePost {
	rp := RemotePost{
		PostID:   p.ID.String(),
		Author:   p.AuthorName,
		Content:  p.Content,
		Tags:     p.Tags,
		Avatar:   p.AvatarURL,
		Media:    p.MediaURL,
		Likes:    p.Likes,
		Comments: p.Comments,
		CreatedAt: RemoteTimestamp{
			Seconds:     p.CreatedAt.Unix(),
			Nanoseconds: int64(p.CreatedAt.Nanosecond()),
		},
	}
	if p.ParentPostID != nil {
		rp.ParentPostID = p.ParentPostID.String()
	}
	return rp
}

// CreatePost sends a social post to the remote API.
func (r *RemoteClient) CreatePost(ctx context.Context, post *models.SocialPost) error {
	payload := RemotePostPayload{
		Content:    post.Content,
		AuthorName: post.AuthorName,
		Tags:       post.Tags,
		Avatar:     post.AvatarURL,
		Media:      post.MediaURL,
	}
	if post.ParentPostID != nil {
		payload.ParentPostID = post.ParentPostID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.postsURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// ReadPosts fetches a page of posts from the remote API.
func (r *RemoteClient) ReadPosts(ctx context.Context, opts ListPostsOptions) ([]*models.SocialPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.postsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", r.apiKey)

	q := req.URL.Query()
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.AgentFilter != "" {
		q.Set("agent", opts.AgentFilter)
	}
	if opts.TagFilter != "" {
		q.Set("tag", opts.TagFilter)
	}
	if opts.ThreadID != "" {
		q.Set("thread_id", opts.ThreadID)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("remote API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var listResp RemoteListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	posts := make([]*models.SocialPost, 0, len(listResp.Posts))
	for _, rp := range listResp.Posts {
		post := &models.SocialPost{
			AuthorName: rp.Author,
			Content:    rp.Content,
			Tags:       rp.Tags,
			AvatarURL:  rp.Avatar,
			MediaURL:   rp.Media,
			Likes:      rp.Likes,
			Comments:   rp.Comments,
			Synced:     true,
		}
		if id, err := uuid.Parse(rp.PostID); err == nil {
			post.ID = id
		}
		if rp.CreatedAt.Seconds > 0 {
			post.CreatedAt = time.Unix(rp.CreatedAt.Seconds, rp.CreatedAt.Nanoseconds)
		}
		if rp.ParentPostID != "" {
			if pid, err := uuid.Parse(rp.ParentPostID); err == nil {
				post.ParentPostID = &pid
			}
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// Ping verifies the credentials by fetching a single post.
func (r *RemoteClient) Ping(ctx context.Context) error {
	_, err := r.ReadPosts(ctx, ListPostsOptions{Limit: 1})
	return err
}

func (r *RemoteClient) postsURL() string {
	return r.apiURL + "/teams/" + r.teamID + "/posts"
}
