// ABOUTME: Chooses the feed source and seed posts from the feed.source setting.
// ABOUTME: Shared by the TUI, the headless feed listing, and the MCP server.
package main

import (
	"fmt"

	"github.com/2389-research/socialify/internal/config"
	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

func newFeedSource(cfg *config.Config, store storage.SocialStore, remote *storage.RemoteClient) (feed.Source, []models.Post, error) {
	switch cfg.Feed.Source {
	case config.SourceSynthetic:
		return feed.NewSyntheticSource(cfg.Feed.Latency), feed.SeedPosts(), nil
	case config.SourceLocal:
		return feed.NewStoreSource(store, cfg.Feed.PageSize), nil, nil
	case config.SourceRemote:
		if remote == nil {
			return nil, nil, fmt.Errorf("feed source %q requires remote credentials; run 'socialify setup'", cfg.Feed.Source)
		}
		return feed.NewRemoteSource(remote, cfg.Feed.PageSize), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown feed source %q", cfg.Feed.Source)
	}
}

func newScreenConfig(cfg *config.Config, source feed.Source) feed.ScreenConfig {
	return feed.ScreenConfig{
		Source:       source,
		FetchTimeout: cfg.Feed.FetchTimeout,
		MaxPosts:     cfg.Feed.MaxPosts,
		Logger:       globalLogger,
	}
}
