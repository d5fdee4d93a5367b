// ABOUTME: CLI commands for social identity and posting.
// ABOUTME: Provides login, logout, and the login-gated post command.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/storage"
)

var loginCmd = &cobra.Command{
	Use:   "login <name>",
	Short: "Set your social handle",
	Long:  "Record the handle used for posting. No credentials are checked.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear your social handle",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var postCmd = &cobra.Command{
	Use:   "post <content>",
	Short: "Create a post",
	Long: `Create a new post with optional tags.

If you are not logged in you are asked whether to go to login instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

// Flags
var (
	postTags     string
	postParentID string
	postYes      bool
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVar(&postTags, "tags", "", "Comma-separated tags")
	postCmd.Flags().StringVar(&postParentID, "reply-to", "", "Parent post ID for threading")
	postCmd.Flags().BoolVarP(&postYes, "yes", "y", false, "Answer yes to the login prompt")
}

func runLogin(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if err := globalSocialStore.SetIdentity(name); err != nil {
		return fmt.Errorf("failed to set identity: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := globalSocialStore.SetIdentity(""); err != nil {
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

// cliNavigator records where the gate sent the post command.
type cliNavigator struct {
	composer bool
	auth     bool
}

func (n *cliNavigator) GoToAuthentication() { n.auth = true }
func (n *cliNavigator) GoToComposer()       { n.composer = true }

func runPost(cmd *cobra.Command, args []string) error {
	var parentID *uuid.UUID
	if postParentID != "" {
		parsed, err := uuid.Parse(postParentID)
		if err != nil {
			return fmt.Errorf("invalid parent post ID: %w", err)
		}
		parentID = &parsed
	}

	nav := &cliNavigator{}
	gate := feed.NewGate(feed.IdentityAuth{Identity: globalSocialStore}, nav, globalLogger, nil)
	out := cmd.OutOrStdout()

	if gate.RequestPrivilegedAction() == feed.GateConfirmOpen {
		fmt.Fprintln(out, "Login required to create a post.")
		if postYes || confirm(cmd.InOrStdin(), out, "Go to login? [y/N] ") {
			gate.ConfirmAndRedirect()
		} else {
			gate.Cancel()
		}
	}

	switch {
	case nav.auth:
		return fmt.Errorf("not logged in - run 'socialify login <name>' first")
	case !nav.composer:
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publisher := storage.NewPublisher(globalSocialStore, globalRemoteClient, globalLogger)
	post, err := publisher.Publish(ctx, args[0], storage.ParseTags(postTags), parentID)
	var syncErr *storage.SyncError
	switch {
	case errors.As(err, &syncErr):
		fmt.Fprintf(out, "Post created locally (ID: %s) but remote sync failed: %v\n", post.ID.String()[:8], syncErr.Err)
		return nil
	case err != nil:
		return err
	}

	fmt.Fprintf(out, "Post created (ID: %s)\n", post.ID.String()[:8])
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
