// ABOUTME: CLI commands for viewing and editing the viewer profile.
// ABOUTME: Edits go through profile.Editor so validation matches the TUI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/socialify/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Long:  "Update your full name and email. Flags left unset keep their saved value.",
	Args:  cobra.NoArgs,
	RunE:  runProfileEdit,
}

var (
	profileName  string
	profileEmail string
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)

	profileEditCmd.Flags().StringVar(&profileName, "name", "", "Full name")
	profileEditCmd.Flags().StringVar(&profileEmail, "email", "", "Email address")
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	p, err := globalSocialStore.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	identity, err := globalSocialStore.GetIdentity()
	if err != nil {
		return fmt.Errorf("failed to get identity: %w", err)
	}
	if identity == "" {
		identity = "(logged out)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Handle: %s\n", identity)
	fmt.Fprintf(out, "Name:   %s\n", p.FullName)
	fmt.Fprintf(out, "Email:  %s\n", p.Email)
	fmt.Fprintf(out, "Avatar: %s\n", p.AvatarURL)
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	editor, err := profile.NewEditor(globalSocialStore, nil, globalLogger)
	if err != nil {
		return err
	}
	if err := editor.Open(); err != nil {
		return err
	}

	name, email := editor.Draft()
	if cmd.Flags().Changed("name") {
		name = profileName
	}
	if cmd.Flags().Changed("email") {
		email = profileEmail
	}
	editor.SetDraft(name, email)
	if err := editor.Save(); err != nil {
		return err
	}

	p := editor.Profile()
	fmt.Fprintf(cmd.OutOrStdout(), "Profile saved: %s <%s>\n", p.FullName, p.Email)
	return nil
}
