// ABOUTME: Authentication gate guarding the create-post action.
// ABOUTME: Closed/ConfirmOpen state machine that cancels or redirects to login.
package feed

import (
	"log/slog"
	"sync"
)

// AuthChecker reports whether the viewer is logged in.
type AuthChecker interface {
	IsAuthenticated() bool
}

// AuthFunc adapts a function to AuthChecker.
type AuthFunc func() bool

// IsAuthenticated calls f.
func (f AuthFunc) IsAuthenticated() bool {
	return f()
}

// IdentityGetter returns the stored handle, empty when logged out.
type IdentityGetter interface {
	GetIdentity() (string, error)
}

// IdentityAuth treats the viewer as logged in when a handle is stored.
type IdentityAuth struct {
	Identity IdentityGetter
}

// IsAuthenticated reports whether a non-empty handle is stored. Read errors
// count as logged out.
func (a IdentityAuth) IsAuthenticated() bool {
	if a.Identity == nil {
		return false
	}
	name, err := a.Identity.GetIdentity()
	return err == nil && name != ""
}

// Navigator performs opaque navigation side effects.
type Navigator interface {
	GoToAuthentication()
	GoToComposer()
}

// GateState is the confirmation dialog state.
type GateState int

const (
	GateClosed GateState = iota
	GateConfirmOpen
)

func (s GateState) String() string {
	switch s {
	case GateClosed:
		return "closed"
	case GateConfirmOpen:
		return "confirm_open"
	default:
		return "unknown"
	}
}

// Gate intercepts the create-post action for logged-out viewers.
type Gate struct {
	mu      sync.Mutex
	state   GateState
	auth    AuthChecker
	nav     Navigator
	log     *slog.Logger
	observe Observer
}

// NewGate creates a Closed gate. A nil logger falls back to slog.Default().
func NewGate(auth AuthChecker, nav Navigator, logger *slog.Logger, observer Observer) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		auth:    auth,
		nav:     nav,
		log:     logger.WithGroup("gate"),
		observe: observer,
	}
}

// RequestPrivilegedAction goes straight to the composer when authenticated,
// closing the dialog first if it was left open. Otherwise it opens the
// confirmation dialog; calling it again while the dialog is open changes nothing.
func (g *Gate) RequestPrivilegedAction() GateState {
	if g.auth != nil && g.auth.IsAuthenticated() {
		if g.close() {
			g.observe.emit(Event{Kind: EventGateChanged, Gate: GateClosed})
		}
		g.log.Debug("create post allowed")
		if g.nav != nil {
			g.nav.GoToComposer()
		}
		return GateClosed
	}

	g.mu.Lock()
	if g.state == GateConfirmOpen {
		g.mu.Unlock()
		return GateConfirmOpen
	}
	g.state = GateConfirmOpen
	g.mu.Unlock()

	g.log.Debug("login required for create post")
	g.observe.emit(Event{Kind: EventGateChanged, Gate: GateConfirmOpen})
	return GateConfirmOpen
}

// Cancel closes the dialog without side effects.
func (g *Gate) Cancel() {
	if !g.close() {
		return
	}
	g.observe.emit(Event{Kind: EventGateChanged, Gate: GateClosed})
}

// ConfirmAndRedirect closes the dialog and navigates to authentication.
// The originally requested action is abandoned.
func (g *Gate) ConfirmAndRedirect() {
	if !g.close() {
		return
	}
	g.observe.emit(Event{Kind: EventGateChanged, Gate: GateClosed})
	if g.nav != nil {
		g.nav.GoToAuthentication()
	}
}

// State returns the dialog state.
func (g *Gate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Reset closes the dialog silently, as on screen mount.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = GateClosed
}

func (g *Gate) close() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != GateConfirmOpen {
		return false
	}
	g.state = GateClosed
	return true
}
