// ABOUTME: Tests for the profile editor state machine.
// ABOUTME: Covers edit validation, discard, persistence and the logout confirmation.
package profile

import (
	"errors"
	"testing"

	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

type countingNav struct{ auth int }

func (n *countingNav) GoToAuthentication() { n.auth++ }

func newTestEditor(t *testing.T) (*Editor, *storage.SocialMDStore, *countingNav) {
	t.Helper()
	store, err := storage.NewSocialMDStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSocialMDStore error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	nav := &countingNav{}
	editor, err := NewEditor(store, nav, nil)
	if err != nil {
		t.Fatalf("NewEditor error: %v", err)
	}
	return editor, store, nav
}

func TestEditorStartsWithDefaultProfile(t *testing.T) {
	editor, _, _ := newTestEditor(t)

	if editor.Mode() != ModeViewing {
		t.Errorf("mode: got %s, want viewing", editor.Mode())
	}
	if editor.Profile() != models.DefaultProfile() {
		t.Errorf("profile: got %+v", editor.Profile())
	}
}

func TestEditorOpenResetsDrafts(t *testing.T) {
	editor, _, _ := newTestEditor(t)

	if err := editor.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	editor.SetDraft("Someone Else", "else@example.com")
	editor.Discard()

	if err := editor.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	name, email := editor.Draft()
	if name != "Jane Doe" || email != "jane.doe@example.com" {
		t.Errorf("drafts not reset: %q %q", name, email)
	}
}

func TestEditorSaveRequiresFields(t *testing.T) {
	tests := []struct {
		name  string
		full  string
		email string
	}{
		{"blank name", "", "a@example.com"},
		{"whitespace name", "   ", "a@example.com"},
		{"blank email", "Alex", ""},
		{"whitespace email", "Alex", "\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			editor, _, _ := newTestEditor(t)
			_ = editor.Open()
			editor.SetDraft(tt.full, tt.email)

			err := editor.Save()
			if !errors.Is(err, ErrIncomplete) {
				t.Fatalf("got %v, want ErrIncomplete", err)
			}
			if editor.Mode() != ModeEditing {
				t.Errorf("mode: got %s, want editing", editor.Mode())
			}
			if !errors.Is(editor.Err(), ErrIncomplete) {
				t.Errorf("Err: got %v", editor.Err())
			}
		})
	}
}

func TestEditorSavePersists(t *testing.T) {
	editor, store, _ := newTestEditor(t)
	_ = editor.Open()
	editor.SetDraft("  Alex Kim ", " alex@example.com ")

	if err := editor.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if editor.Mode() != ModeViewing {
		t.Errorf("mode: got %s, want viewing", editor.Mode())
	}

	saved, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile error: %v", err)
	}
	if saved.FullName != "Alex Kim" || saved.Email != "alex@example.com" {
		t.Errorf("saved profile: %+v", saved)
	}
	if saved.AvatarURL != models.DefaultProfile().AvatarURL {
		t.Errorf("avatar lost: %q", saved.AvatarURL)
	}
}

func TestEditorSaveOutsideEditing(t *testing.T) {
	editor, _, _ := newTestEditor(t)
	if err := editor.Save(); !errors.Is(err, ErrWrongMode) {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
}

func TestEditorLogoutFlow(t *testing.T) {
	editor, store, nav := newTestEditor(t)
	if err := store.SetIdentity("jane"); err != nil {
		t.Fatalf("SetIdentity error: %v", err)
	}

	if err := editor.RequestLogout(); err != nil {
		t.Fatalf("RequestLogout error: %v", err)
	}
	editor.CancelLogout()
	if editor.Mode() != ModeViewing || nav.auth != 0 {
		t.Fatalf("cancel: mode=%s nav=%d", editor.Mode(), nav.auth)
	}

	_ = editor.RequestLogout()
	if err := editor.ConfirmLogout(); err != nil {
		t.Fatalf("ConfirmLogout error: %v", err)
	}
	if nav.auth != 1 {
		t.Errorf("auth navigation: got %d, want 1", nav.auth)
	}
	name, _ := store.GetIdentity()
	if name != "" {
		t.Errorf("identity not cleared: %q", name)
	}
}

func TestEditorConfirmLogoutRequiresConfirmation(t *testing.T) {
	editor, _, nav := newTestEditor(t)
	if err := editor.ConfirmLogout(); !errors.Is(err, ErrWrongMode) {
		t.Errorf("got %v, want ErrWrongMode", err)
	}
	if nav.auth != 0 {
		t.Error("navigated without confirmation")
	}
}
