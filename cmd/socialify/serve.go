// ABOUTME: Serve command that runs the development posts API.
// ABOUTME: Serves the local social store so the remote feed source and sync can be used offline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development posts API",
	Long: `Serve /teams/{team}/posts from the local social store.

Requests must carry the configured social.api_key and social.team_id.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := serveAddr
	if addr == "" {
		addr = globalConfig.Server.Addr
	}

	srv, err := server.New(globalSocialStore, server.Config{
		Addr:   addr,
		APIKey: globalConfig.Social.APIKey,
		TeamID: globalConfig.Social.TeamID,
		Logger: globalLogger,
	})
	if err != nil {
		return fmt.Errorf("cannot serve: %w (run 'socialify setup' first)", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving posts API on http://%s\n", addr)
	return srv.ListenAndServe(ctx)
}
