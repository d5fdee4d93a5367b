// ABOUTME: MCP tools over the mounted feed screen.
// ABOUTME: Registers read_feed, load_more, toggle_like, confirm_login and cancel_login.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/socialify/internal/feed"
)

func (s *Server) registerFeedTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "read_feed",
		Description: "Show the loaded feed with like state, the loading state and any fetch error.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleReadFeed)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "load_more",
		Description: "Fetch the next page of the feed. Fails if a fetch is already in progress.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleLoadMore)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "toggle_like",
		Description: "Like or unlike a feed post. Likes are local to this session.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"post_id": {"type": "string", "description": "ID of the feed post.", "minLength": 1}
			},
			"required": ["post_id"]
		}`),
	}, s.handleToggleLike)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "confirm_login",
		Description: "Accept the open login prompt. Use the login tool next.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleConfirmLogin)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "cancel_login",
		Description: "Dismiss the open login prompt.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleCancelLogin)
}

func (s *Server) handleReadFeed(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return toolText("%s", renderSnapshot(s.screen.Snapshot())), nil
}

func (s *Server) handleLoadMore(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	n, err := s.screen.Pager().LoadMore(ctx)
	switch {
	case errors.Is(err, feed.ErrFetchInFlight):
		return toolError("a fetch is already in progress"), nil
	case err != nil:
		s.log.Warn("load_more failed", "err", err)
		return toolError("%v", err), nil
	}
	if n == 0 {
		return toolText("No new posts."), nil
	}
	return toolText("Loaded %d new posts (%d total).", n, s.screen.Store().Len()), nil
}

func (s *Server) handleToggleLike(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.PostID == "" {
		return toolError("post_id is required"), nil
	}

	post, ok := s.screen.Store().Get(args.PostID)
	if !ok {
		return toolError("post %s is not in the feed", args.PostID), nil
	}

	likes := s.screen.Likes()
	if likes.Toggle(post.ID) {
		return toolText("Liked post %s (%d likes)", post.ID, likes.Count(post)), nil
	}
	return toolText("Unliked post %s (%d likes)", post.ID, likes.Count(post)), nil
}

func (s *Server) handleConfirmLogin(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.gateMu.Lock()
	s.nav.reset()
	s.screen.Gate().ConfirmAndRedirect()
	redirected := s.nav.auth
	s.gateMu.Unlock()

	if !redirected {
		return toolText("No login prompt is open."), nil
	}
	return toolText("Log in with the login tool, then call create_post again."), nil
}

func (s *Server) handleCancelLogin(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	s.gateMu.Lock()
	open := s.screen.Gate().State() == feed.GateConfirmOpen
	s.screen.Gate().Cancel()
	s.gateMu.Unlock()

	if !open {
		return toolText("No login prompt is open."), nil
	}
	return toolText("Login prompt dismissed."), nil
}

func renderSnapshot(snap feed.Snapshot) string {
	var sb strings.Builder
	for _, p := range snap.Posts {
		heart := "♡"
		if p.Liked {
			heart = "♥"
		}
		sb.WriteString(fmt.Sprintf("---\n[%s] @%s · %s\n", p.ID, p.Author, p.TimeLabel))
		if p.MediaURL != "" {
			sb.WriteString(fmt.Sprintf("media: %s\n", p.MediaURL))
		}
		sb.WriteString(fmt.Sprintf("%s\n%s %d  comments %d\n", p.Caption, heart, p.DisplayLikes, p.Comments))
	}
	if len(snap.Posts) == 0 {
		sb.WriteString("Feed is empty.\n")
	}

	sb.WriteString(fmt.Sprintf("===\n%d posts, %d pages loaded, %s\n", len(snap.Posts), snap.Fetches, snap.Page))
	if snap.LastErr != nil {
		sb.WriteString(fmt.Sprintf("last fetch failed: %v\n", snap.LastErr))
	}
	if snap.Gate == feed.GateConfirmOpen {
		sb.WriteString(loginRequiredText + "\n")
	}
	return sb.String()
}
