// ABOUTME: Tests for remote social API client using httptest server.
// ABOUTME: Covers post creation, paging, error handling, and auth header passing.
package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2389-research/socialify/internal/models"
)

func TestRemoteClientCreatePost(t *testing.T) {
	var receivedBody []byte
	var receivedAuth string
	var receivedContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/test-team-id/posts" {
			t.Errorf("expected path /teams/test-team-id/posts, got %s", r.URL.Path)
		}
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		receivedAuth = r.Header.Get("x-api-key")
		receivedContentType = r.Header.Get("Content-Type")
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "test-api-key", "test-team-id")
	post := models.NewSocialPost("turbo_gecko", "Hello remote!", []string{"test"}, nil)
	post.MediaURL = "https://picsum.photos/id/1020/400/300"

	if err := client.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}

	if receivedAuth != "test-api-key" {
		t.Errorf("expected 'test-api-key', got %q", receivedAuth)
	}
	if receivedContentType != "application/json" {
		t.Errorf("expected 'application/json', got %q", receivedContentType)
	}

	var payload RemotePostPayload
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to unmarshal request body: %v", err)
	}
	if payload.Content != "Hello remote!" {
		t.Errorf("expected content 'Hello remote!', got %q", payload.Content)
	}
	if payload.AuthorName != "turbo_gecko" {
		t.Errorf("expected author 'turbo_gecko', got %q", payload.AuthorName)
	}
	if payload.Media != post.MediaURL {
		t.Errorf("expected media %q, got %q", post.MediaURL, payload.Media)
	}
}

func TestRemoteClientCreatePostError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "key", "team")
	post := models.NewSocialPost("agent", "test", nil, nil)

	err := client.CreatePost(context.Background(), post)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected error to mention status code, got: %v", err)
	}
}

func TestRemoteClientReadPosts(t *testing.T) {
	var receivedAuth string
	var receivedPath string
	var receivedQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		receivedAuth = r.Header.Get("x-api-key")
		receivedQuery = r.URL.RawQuery

		resp := RemoteListResponse{
			Posts: []RemotePost{
				{PostID: "00000000-0000-0000-0000-000000000001", Author: "agent1", Content: "Post 1", Tags: []string{"tag1"}, CreatedAt: RemoteTimestamp{Seconds: 1700000000}, Likes: 3},
				{PostID: "00000000-0000-0000-0000-000000000002", Author: "agent2", Content: "Post 2", CreatedAt: RemoteTimestamp{Seconds: 1700000100}, Comments: 7},
			},
			TotalCount: 2,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "key", "team")
	posts, err := client.ReadPosts(context.Background(), ListPostsOptions{
		Limit:       5,
		Offset:      10,
		AgentFilter: "agent1",
	})
	if err != nil {
		t.Fatalf("ReadPosts error: %v", err)
	}

	if receivedPath != "/teams/team/posts" {
		t.Errorf("expected path /teams/team/posts, got %s", receivedPath)
	}
	if receivedAuth != "key" {
		t.Errorf("expected 'key', got %q", receivedAuth)
	}
	for _, expected := range []string{"limit=5", "offset=10", "agent=agent1"} {
		if !strings.Contains(receivedQuery, expected) {
			t.Errorf("expected query to contain %q, got %q", expected, receivedQuery)
		}
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].AuthorName != "agent1" {
		t.Errorf("expected author 'agent1', got %q", posts[0].AuthorName)
	}
	if posts[0].Likes != 3 || posts[1].Comments != 7 {
		t.Errorf("counts not decoded: likes=%d comments=%d", posts[0].Likes, posts[1].Comments)
	}
	if posts[0].CreatedAt.Unix() != 1700000000 {
		t.Errorf("expected createdAt 1700000000, got %d", posts[0].CreatedAt.Unix())
	}
	if !posts[0].Synced {
		t.Error("expected remote posts to be marked synced")
	}
}

func TestRemoteClientReadPostsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("unauthorized"))
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "bad-key", "team")
	if _, err := client.ReadPosts(context.Background(), ListPostsOptions{}); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestRemoteClientReadPostsCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(RemoteListResponse{})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewRemoteClient(server.URL, "key", "team")
	if _, err := client.ReadPosts(ctx, ListPostsOptions{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestRemoteClientConnectionError(t *testing.T) {
	client := NewRemoteClient("http://localhost:1", "key", "team")
	post := models.NewSocialPost("agent", "test", nil, nil)

	if err := client.CreatePost(context.Background(), post); err == nil {
		t.Fatal("expected error for connection failure")
	}
}

func TestRemoteClientPing(t *testing.T) {
	var receivedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(RemoteListResponse{})
	}))
	defer server.Close()

	client := NewRemoteClient(server.URL, "key", "team")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if receivedQuery != "limit=1" {
		t.Errorf("expected limit=1, got %q", receivedQuery)
	}
}

func TestNormalizeAPIURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://api.example.com", "https://api.example.com"},
		{"https://api.example.com/", "https://api.example.com"},
		{"https://api.example.com/v1", "https://api.example.com"},
		{"https://api.example.com/v1/", "https://api.example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeAPIURL(tt.input); got != tt.expected {
			t.Errorf("NormalizeAPIURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestToRemotePost(t *testing.T) {
	parent := models.NewSocialPost("a", "root", nil, nil)
	post := models.NewSocialPost("b", "reply", []string{"x"}, &parent.ID)
	post.Likes = 2

	rp := ToRemotePost(post)
	if rp.PostID != post.ID.String() {
		t.Errorf("PostID = %q", rp.PostID)
	}
	if rp.ParentPostID != parent.ID.String() {
		t.Errorf("ParentPostID = %q, want %q", rp.ParentPostID, parent.ID.String())
	}
	if rp.CreatedAt.Seconds != post.CreatedAt.Unix() {
		t.Errorf("CreatedAt seconds = %d", rp.CreatedAt.Seconds)
	}
	if rp.Likes != 2 {
		t.Errorf("Likes = %d", rp.Likes)
	}
}
