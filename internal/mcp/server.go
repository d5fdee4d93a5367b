// ABOUTME: MCP server initialization and configuration for socialify.
// ABOUTME: Sets up social and feed tools over a mounted feed screen for AI agent access.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

// Server wraps the MCP server with social storage and a feed screen.
type Server struct {
	mcp       *gomcp.Server
	social    storage.SocialStore
	remote    *storage.RemoteClient
	publisher *storage.Publisher
	screen    *feed.Screen
	nav       *toolNavigator
	source    feed.Source
	seed      []models.Post
	screenCfg feed.ScreenConfig
	log       *slog.Logger

	// gateMu serializes gate transitions with the navigation they trigger.
	gateMu sync.Mutex
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithRemoteClient sets the remote API client for social posting.
func WithRemoteClient(rc *storage.RemoteClient) ServerOption {
	return func(s *Server) {
		s.remote = rc
	}
}

// WithFeed sets the feed source, seed posts and engine tuning. Nav and Auth
// in cfg are ignored.
func WithFeed(source feed.Source, seed []models.Post, cfg feed.ScreenConfig) ServerOption {
	return func(s *Server) {
		s.source = source
		s.seed = seed
		s.screenCfg = cfg
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logger
	}
}

// toolNavigator records what the gate asked for during a single tool call.
type toolNavigator struct {
	composer bool
	auth     bool
}

func (n *toolNavigator) GoToAuthentication() { n.auth = true }
func (n *toolNavigator) GoToComposer()       { n.composer = true }

func (n *toolNavigator) reset() {
	n.composer = false
	n.auth = false
}

// NewServer creates an MCP server with social and feed capabilities.
func NewServer(social storage.SocialStore, opts ...ServerOption) (*Server, error) {
	if social == nil {
		return nil, fmt.Errorf("social store is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "socialify",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		social: social,
		nav:    &toolNavigator{},
		log:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.source == nil {
		s.source = feed.NewSyntheticSource(0)
		s.seed = feed.SeedPosts()
	}
	s.publisher = storage.NewPublisher(social, s.remote, s.log)

	cfg := s.screenCfg
	cfg.Source = s.source
	cfg.Auth = feed.IdentityAuth{Identity: social}
	cfg.Nav = s.nav
	if cfg.Logger == nil {
		cfg.Logger = s.log
	}
	s.screen = feed.NewScreen(cfg)
	s.screen.Mount(s.seed)

	s.registerSocialTools()
	s.registerFeedTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode. The feed screen is unmounted
// when serving stops.
func (s *Server) Serve(ctx context.Context) error {
	defer s.screen.Unmount()
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolText(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}
