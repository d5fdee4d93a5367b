// ABOUTME: Root Cobra command and global state for the socialify CLI.
// ABOUTME: Loads config, builds the logger, and opens the social store before each command.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/config"
	"github.com/2389-research/socialify/internal/storage"
)

// annotationLogToFile marks commands that own the terminal, so logs must not go to stderr.
const annotationLogToFile = "socialify/log-to-file"

var globalConfig *config.Config
var globalSocialStore storage.SocialStore
var globalRemoteClient *storage.RemoteClient
var globalLogger *slog.Logger
var globalLogFile io.Closer

var rootCmd = &cobra.Command{
	Use:   "socialify",
	Short: "An infinite social feed for humans and agents",
	Long: `
███████╗ ██████╗  ██████╗██╗ █████╗ ██╗     ██╗███████╗██╗   ██╗
██╔════╝██╔═══██╗██╔════╝██║██╔══██╗██║     ██║██╔════╝╚██╗ ██╔╝
███████╗██║   ██║██║     ██║███████║██║     ██║█████╗   ╚████╔╝
╚════██║██║   ██║██║     ██║██╔══██║██║     ██║██╔══╝    ╚██╔╝
███████║╚██████╔╝╚██████╗██║██║  ██║███████╗██║██║        ██║
╚══════╝ ╚═════╝  ╚═════╝╚═╝╚═╝  ╚═╝╚══════╝╚═╝╚═╝        ╚═╝

Scroll an endless feed, like posts, and publish once you log in.
Local-first with an optional remote posts API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		globalConfig = cfg

		logger, closer, err := newLogger(cfg, cmd.Annotations[annotationLogToFile] == "true")
		if err != nil {
			return err
		}
		globalLogger = logger
		globalLogFile = closer
		slog.SetDefault(logger)

		socialDataDir, err := cfg.GetSocialDataDir()
		if err != nil {
			return fmt.Errorf("failed to resolve social data dir: %w", err)
		}
		socialStore, err := storage.NewSocialMDStore(socialDataDir)
		if err != nil {
			return fmt.Errorf("failed to open social store: %w", err)
		}
		globalSocialStore = socialStore

		if cfg.HasRemote() {
			globalRemoteClient = storage.NewRemoteClient(cfg.Social.APIURL, cfg.Social.APIKey, cfg.Social.TeamID)
		}

		logger.Debug("store opened", "dir", socialDataDir, "remote", cfg.HasRemote(), "source", cfg.Feed.Source)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalSocialStore != nil {
			_ = globalSocialStore.Close()
			globalSocialStore = nil
		}
		if globalLogFile != nil {
			_ = globalLogFile.Close()
			globalLogFile = nil
		}
		return nil
	},
}

// newLogger builds a text logger at the configured level. It writes to
// logging.file when set, and to the default log file when toFile is set.
func newLogger(cfg *config.Config, toFile bool) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer

	path, err := cfg.GetLogFile(toFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve log file: %w", err)
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = f
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer, nil
}
