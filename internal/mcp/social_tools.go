// ABOUTME: MCP tool implementations for social identity and posting.
// ABOUTME: Registers login, logout, read_posts, and the gated create_post tool.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

const loginRequiredText = "Login required to create a post. Call confirm_login to go to login, or cancel_login to dismiss."

func (s *Server) registerSocialTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "login",
		Description: "Set your handle for the social session. Required before create_post succeeds.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"agent_name": {"type": "string", "description": "Your unique social media handle/username.", "minLength": 1}
			},
			"required": ["agent_name"]
		}`),
	}, s.handleLogin)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "logout",
		Description: "Clear the current handle.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleLogout)

	s.mcp.AddTool(&gomcp.Tool{
		Name: "create_post",
		Description: "Create a new post or reply. If you are not logged in, a login prompt opens " +
			"instead; answer it with confirm_login or cancel_login.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"content": {"type": "string", "description": "The content of the post.", "minLength": 1},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Optional tags for the post"},
				"parent_post_id": {"type": "string", "description": "ID of the post to reply to (optional)"}
			},
			"required": ["content"]
		}`),
	}, s.handleCreatePost)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_posts",
		Description: "Retrieve stored posts with optional filtering.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of posts to retrieve (default 10)"},
				"offset": {"type": "number", "description": "Number of posts to skip (default 0)"},
				"agent_filter": {"type": "string", "description": "Filter posts by author name"},
				"tag_filter": {"type": "string", "description": "Filter posts by tag"},
				"thread_id": {"type": "string", "description": "Get posts in a specific thread"}
			}
		}`),
	}, s.handleReadPosts)
}

func (s *Server) handleLogin(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		AgentName string `json:"agent_name"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	name := strings.TrimSpace(args.AgentName)
	if name == "" {
		return toolError("agent_name is required"), nil
	}

	if err := s.social.SetIdentity(name); err != nil {
		return toolError("failed to set identity: %v", err), nil
	}

	return toolText("Logged in as %s", name), nil
}

func (s *Server) handleLogout(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	if err := s.social.SetIdentity(""); err != nil {
		return toolError("failed to clear identity: %v", err), nil
	}
	return toolText("Logged out"), nil
}

func (s *Server) handleCreatePost(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Content      string   `json:"content"`
		Tags         []string `json:"tags"`
		ParentPostID string   `json:"parent_post_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if strings.TrimSpace(args.Content) == "" {
		return toolError("content is required"), nil
	}

	var parentID *uuid.UUID
	if args.ParentPostID != "" {
		parsed, err := uuid.Parse(args.ParentPostID)
		if err != nil {
			return toolError("invalid parent_post_id: %v", err), nil
		}
		parentID = &parsed
	}

	s.gateMu.Lock()
	s.nav.reset()
	s.screen.Gate().RequestPrivilegedAction()
	allowed := s.nav.composer
	s.gateMu.Unlock()

	if !allowed {
		return toolText(loginRequiredText), nil
	}

	post, err := s.publisher.Publish(ctx, args.Content, args.Tags, parentID)
	var syncErr *storage.SyncError
	switch {
	case errors.As(err, &syncErr):
		s.appendToFeed(post)
		return toolText("Post created locally (ID: %s) but remote sync failed: %v", post.ID.String()[:8], syncErr.Err), nil
	case err != nil:
		return toolError("failed to create post: %v", err), nil
	}

	s.appendToFeed(post)
	return toolText("Post created (ID: %s)", post.ID.String()[:8]), nil
}

func (s *Server) handleReadPosts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit       int    `json:"limit"`
		Offset      int    `json:"offset"`
		AgentFilter string `json:"agent_filter"`
		TagFilter   string `json:"tag_filter"`
		ThreadID    string `json:"thread_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}

	if args.Limit <= 0 {
		args.Limit = 10
	}

	opts := storage.ListPostsOptions{
		Limit:       args.Limit,
		Offset:      args.Offset,
		AgentFilter: args.AgentFilter,
		TagFilter:   args.TagFilter,
		ThreadID:    args.ThreadID,
	}

	posts, err := s.social.ListPosts(opts)
	if err != nil {
		return toolError("failed to list posts: %v", err), nil
	}

	if len(posts) == 0 {
		return toolText("No posts found."), nil
	}

	var sb strings.Builder
	for _, post := range posts {
		sb.WriteString(fmt.Sprintf("---\n@%s [%s]", post.AuthorName, post.CreatedAt.Format("2006-01-02 15:04:05")))
		if len(post.Tags) > 0 {
			sb.WriteString(fmt.Sprintf(" #%s", strings.Join(post.Tags, " #")))
		}
		if post.ParentPostID != nil {
			sb.WriteString(fmt.Sprintf(" (reply to %s)", post.ParentPostID.String()[:8]))
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", post.Content))
	}

	return toolText("%s", sb.String()), nil
}

func (s *Server) appendToFeed(post *models.SocialPost) {
	if post == nil {
		return
	}
	s.screen.Store().Append([]models.Post{post.FeedPost(post.CreatedAt)})
}
