// ABOUTME: Profile editor state machine: view, edit with validation, confirm logout.
// ABOUTME: Persists the viewer profile and clears the identity on logout.
package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389-research/socialify/internal/models"
)

var (
	// ErrIncomplete is returned by Save when the name or email is blank.
	ErrIncomplete = errors.New("full name and email are required")

	// ErrWrongMode is returned when an action is not valid in the current mode.
	ErrWrongMode = errors.New("action not available in current mode")
)

// Mode is the editor state.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
	ModeConfirmLogout
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	case ModeConfirmLogout:
		return "confirm_logout"
	default:
		return "unknown"
	}
}

// Store persists the profile and the logged-in identity.
type Store interface {
	GetProfile() (models.Profile, error)
	SetProfile(p models.Profile) error
	SetIdentity(name string) error
}

// Navigator is called after logout.
type Navigator interface {
	GoToAuthentication()
}

// Editor drives the profile screen.
type Editor struct {
	mu    sync.Mutex
	store Store
	nav   Navigator
	log   *slog.Logger

	mode  Mode
	saved models.Profile
	name  string
	email string
	err   error
}

// NewEditor loads the saved profile and starts in Viewing mode.
func NewEditor(store Store, nav Navigator, logger *slog.Logger) (*Editor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	p, err := store.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &Editor{
		store: store,
		nav:   nav,
		log:   logger.WithGroup("profile"),
		saved: p,
	}, nil
}

// Open enters Editing with drafts reset from the saved profile.
func (e *Editor) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeViewing {
		return ErrWrongMode
	}
	e.mode = ModeEditing
	e.name = e.saved.FullName
	e.email = e.saved.Email
	e.err = nil
	return nil
}

// SetDraft replaces the draft values while Editing.
func (e *Editor) SetDraft(name, email string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeEditing {
		return
	}
	e.name = name
	e.email = email
}

// Save validates and persists the drafts, returning to Viewing. A blank field
// leaves the editor in Editing with ErrIncomplete.
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeEditing {
		return ErrWrongMode
	}

	name := strings.TrimSpace(e.name)
	email := strings.TrimSpace(e.email)
	if name == "" || email == "" {
		e.err = ErrIncomplete
		return ErrIncomplete
	}

	next := e.saved
	next.FullName = name
	next.Email = email
	if err := e.store.SetProfile(next); err != nil {
		e.err = fmt.Errorf("failed to save profile: %w", err)
		return e.err
	}

	e.saved = next
	e.mode = ModeViewing
	e.err = nil
	e.log.Info("profile saved", "name", name)
	return nil
}

// Discard abandons the drafts.
func (e *Editor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == ModeEditing {
		e.mode = ModeViewing
		e.err = nil
	}
}

// RequestLogout opens the logout confirmation.
func (e *Editor) RequestLogout() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeViewing {
		return ErrWrongMode
	}
	e.mode = ModeConfirmLogout
	return nil
}

// CancelLogout closes the logout confirmation.
func (e *Editor) CancelLogout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == ModeConfirmLogout {
		e.mode = ModeViewing
	}
}

// ConfirmLogout clears the identity and navigates to authentication.
func (e *Editor) ConfirmLogout() error {
	e.mu.Lock()
	if e.mode != ModeConfirmLogout {
		e.mu.Unlock()
		return ErrWrongMode
	}
	if err := e.store.SetIdentity(""); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to clear identity: %w", err)
	}
	e.mode = ModeViewing
	nav := e.nav
	e.mu.Unlock()

	e.log.Info("logged out")
	if nav != nil {
		nav.GoToAuthentication()
	}
	return nil
}

// Mode returns the editor state.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Profile returns the saved profile.
func (e *Editor) Profile() models.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved
}

// Draft returns the current draft values.
func (e *Editor) Draft() (name, email string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name, e.email
}

// Err returns the last validation or save error shown in the edit form.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}
