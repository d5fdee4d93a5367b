// ABOUTME: Feed commands: the interactive feed TUI and a headless page listing.
// ABOUTME: Both run the same feed engine configured by the feed section of the config.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/storage"
	"github.com/2389-research/socialify/internal/tui"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Open the interactive feed",
	Long: `Scroll the feed; more posts load as you near the end.

Keys: j/k move, l like, c create post, m load more, p profile, q quit.`,
	Annotations: map[string]string{annotationLogToFile: "true"},
	RunE:        runFeed,
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the feed after loading extra pages",
	Long:  "Mount the feed, fetch --pages more pages one after another, and print the result.",
	RunE:  runFeedList,
}

var feedListPages int

func init() {
	rootCmd.AddCommand(feedCmd)
	feedCmd.AddCommand(feedListCmd)

	feedListCmd.Flags().IntVar(&feedListPages, "pages", 1, "Number of pages to load after mounting")
}

func runFeed(cmd *cobra.Command, args []string) error {
	source, seed, err := newFeedSource(globalConfig, globalSocialStore, globalRemoteClient)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.AppConfig{
		Screen:    newScreenConfig(globalConfig, source),
		Seed:      seed,
		Threshold: globalConfig.Feed.PrefetchThreshold,
		Store:     globalSocialStore,
		Publisher: storage.NewPublisher(globalSocialStore, globalRemoteClient, globalLogger),
		Logger:    globalLogger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runFeedList(cmd *cobra.Command, args []string) error {
	if feedListPages < 0 {
		return fmt.Errorf("--pages must not be negative")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, seed, err := newFeedSource(globalConfig, globalSocialStore, globalRemoteClient)
	if err != nil {
		return err
	}

	screen := feed.NewScreen(newScreenConfig(globalConfig, source))
	screen.Mount(seed)
	defer screen.Unmount()

	out := cmd.OutOrStdout()
	for i := 0; i < feedListPages; i++ {
		n, err := screen.Pager().LoadMore(ctx)
		if err != nil {
			var fetchErr *feed.FetchError
			if errors.As(err, &fetchErr) {
				fmt.Fprintf(out, "! %v\n", err)
				break
			}
			return err
		}
		if n == 0 {
			break
		}
	}

	printSnapshot(cmd, screen.Snapshot())
	return nil
}

func printSnapshot(cmd *cobra.Command, snap feed.Snapshot) {
	out := cmd.OutOrStdout()
	if len(snap.Posts) == 0 {
		fmt.Fprintln(out, "No posts found.")
		return
	}
	for _, p := range snap.Posts {
		fmt.Fprintf(out, "--- @%s [%s] %s\n", p.Author, p.TimeLabel, p.ID)
		fmt.Fprintf(out, "%s\n", p.Caption)
		if p.MediaURL != "" {
			fmt.Fprintf(out, "%s\n", p.MediaURL)
		}
		fmt.Fprintf(out, "♡ %d  comments %d\n\n", p.DisplayLikes, p.Comments)
	}
	fmt.Fprintf(out, "%d posts, %d pages loaded\n", len(snap.Posts), snap.Fetches)
}
