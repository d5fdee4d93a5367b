// ABOUTME: Setup command that picks the feed source and remote posts API credentials.
// ABOUTME: Runs the setup wizard and writes the feed and social config sections.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/config"
	"github.com/2389-research/socialify/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose the feed source and connect a remote posts API",
	Long: `Interactive wizard that sets feed.source.

Picking remote, or local with sync, also asks for remote posts API
credentials and checks them before saving.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tea.NewProgram(tui.NewSetupModel(setupValues(cfg))).Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	out := cmd.OutOrStdout()
	final, ok := result.(tui.SetupModel)
	if !ok || !final.ShouldSave() {
		fmt.Fprintln(out, "Setup cancelled.")
		return nil
	}

	applySetup(cfg, final.Result())
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Fprintf(out, "Config saved to %s\n", path)
	} else {
		fmt.Fprintln(out, "Config saved.")
	}
	fmt.Fprintf(out, "Feed source: %s\n", cfg.Feed.Source)
	if final.Connected() && cfg.Feed.Source == config.SourceLocal {
		fmt.Fprintln(out, "New posts will sync to the remote API.")
	}
	return nil
}

func setupValues(cfg *config.Config) tui.SetupValues {
	return tui.SetupValues{
		Source: cfg.Feed.Source,
		APIURL: cfg.Social.APIURL,
		TeamID: cfg.Social.TeamID,
		APIKey: cfg.Social.APIKey,
	}
}

// applySetup writes the wizard result into the feed and social sections.
func applySetup(cfg *config.Config, v tui.SetupValues) {
	cfg.Feed.Source = v.Source
	cfg.Social.APIURL = v.APIURL
	cfg.Social.TeamID = v.TeamID
	cfg.Social.APIKey = v.APIKey
}
