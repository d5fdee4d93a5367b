// ABOUTME: Connection validation for the social posts API.
// ABOUTME: Tests credentials by fetching a single post through the remote client.
package tui

import (
	"context"
	"fmt"

	"github.com/2389-research/socialify/internal/storage"
)

// ValidateConnection tests the API connection by fetching posts with the given credentials.
// The context allows cancellation when the user quits during validation.
func ValidateConnection(ctx context.Context, apiURL, apiKey, teamID string) error {
	client := storage.NewRemoteClient(apiURL, apiKey, teamID)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	return nil
}
