// ABOUTME: MCP server command implementation for socialify.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcppkg "github.com/2389-research/socialify/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio and exposes the same feed,
like, login and posting flow as the interactive feed.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, seed, err := newFeedSource(globalConfig, globalSocialStore, globalRemoteClient)
	if err != nil {
		return err
	}

	opts := []mcppkg.ServerOption{
		mcppkg.WithFeed(source, seed, newScreenConfig(globalConfig, source)),
		mcppkg.WithLogger(globalLogger),
	}
	if globalRemoteClient != nil {
		opts = append(opts, mcppkg.WithRemoteClient(globalRemoteClient))
	}

	server, err := mcppkg.NewServer(globalSocialStore, opts...)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
