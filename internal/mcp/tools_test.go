// ABOUTME: Shared helpers for MCP tool handler tests.
// ABOUTME: Calls handlers directly by tool name and extracts text results.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/socialify/internal/storage"
)

type toolHandler func(context.Context, *gomcp.CallToolRequest) (*gomcp.CallToolResult, error)

func makeServer(t *testing.T, opts ...ServerOption) (*Server, *storage.SocialMDStore) {
	t.Helper()
	social, err := storage.NewSocialMDStore(filepath.Join(t.TempDir(), "social"))
	if err != nil {
		t.Fatalf("NewSocialMDStore error: %v", err)
	}
	server, err := NewServer(social, opts...)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return server, social
}

func callTool(t *testing.T, s *Server, name string, args interface{}) *gomcp.CallToolResult {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}

	req := &gomcp.CallToolRequest{
		Params: &gomcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}

	handlers := map[string]toolHandler{
		"login":         s.handleLogin,
		"logout":        s.handleLogout,
		"create_post":   s.handleCreatePost,
		"read_posts":    s.handleReadPosts,
		"read_feed":     s.handleReadFeed,
		"load_more":     s.handleLoadMore,
		"toggle_like":   s.handleToggleLike,
		"confirm_login": s.handleConfirmLogin,
		"cancel_login":  s.handleCancelLogin,
	}
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return result
}

func getTextContent(result *gomcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*gomcp.TextContent); ok {
		return tc.Text
	}
	return ""
}
