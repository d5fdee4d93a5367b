// ABOUTME: Tests for the create-post authentication gate.
// ABOUTME: Covers authenticated pass-through, confirm/cancel and redirect flows.
package feed

import (
	"errors"
	"testing"
)

type recordingNav struct {
	auth     int
	composer int
}

func (n *recordingNav) GoToAuthentication() { n.auth++ }
func (n *recordingNav) GoToComposer()       { n.composer++ }

func TestScenarioCUnauthenticatedCancel(t *testing.T) {
	nav := &recordingNav{}
	gate := NewGate(AuthFunc(func() bool { return false }), nav, nil, nil)

	if got := gate.RequestPrivilegedAction(); got != GateConfirmOpen {
		t.Fatalf("got %s, want confirm_open", got)
	}
	gate.Cancel()

	if gate.State() != GateClosed {
		t.Errorf("state: got %s, want closed", gate.State())
	}
	if nav.auth != 0 || nav.composer != 0 {
		t.Errorf("unexpected navigation: %+v", nav)
	}
}

func TestScenarioDAuthenticatedGoesToComposer(t *testing.T) {
	var states []GateState
	nav := &recordingNav{}
	gate := NewGate(AuthFunc(func() bool { return true }), nav, nil, func(e Event) {
		if e.Kind == EventGateChanged {
			states = append(states, e.Gate)
		}
	})

	gate.RequestPrivilegedAction()

	if nav.composer != 1 {
		t.Errorf("composer calls: got %d, want 1", nav.composer)
	}
	if nav.auth != 0 {
		t.Errorf("auth calls: got %d, want 0", nav.auth)
	}
	if gate.State() != GateClosed {
		t.Errorf("state: got %s, want closed", gate.State())
	}
	if len(states) != 0 {
		t.Errorf("gate changed state while authenticated: %v", states)
	}
}

func TestGateRepeatedRequestOpensOnce(t *testing.T) {
	opened := 0
	gate := NewGate(AuthFunc(func() bool { return false }), &recordingNav{}, nil, func(e Event) {
		if e.Kind == EventGateChanged && e.Gate == GateConfirmOpen {
			opened++
		}
	})

	gate.RequestPrivilegedAction()
	gate.RequestPrivilegedAction()

	if gate.State() != GateConfirmOpen {
		t.Errorf("state: got %s, want confirm_open", gate.State())
	}
	if opened != 1 {
		t.Errorf("dialog opened %d times, want 1", opened)
	}
}

func TestGateConfirmAndRedirect(t *testing.T) {
	nav := &recordingNav{}
	gate := NewGate(AuthFunc(func() bool { return false }), nav, nil, nil)

	gate.RequestPrivilegedAction()
	gate.ConfirmAndRedirect()

	if gate.State() != GateClosed {
		t.Errorf("state: got %s, want closed", gate.State())
	}
	if nav.auth != 1 {
		t.Errorf("auth calls: got %d, want 1", nav.auth)
	}
	if nav.composer != 0 {
		t.Errorf("composer must not be invoked after redirect, got %d", nav.composer)
	}
}

func TestGateClosedTransitionsAreNoops(t *testing.T) {
	nav := &recordingNav{}
	gate := NewGate(AuthFunc(func() bool { return false }), nav, nil, nil)

	gate.Cancel()
	gate.ConfirmAndRedirect()

	if gate.State() != GateClosed {
		t.Errorf("state: got %s, want closed", gate.State())
	}
	if nav.auth != 0 {
		t.Errorf("redirect from closed state navigated %d times", nav.auth)
	}
}

type fakeIdentity struct {
	name string
	err  error
}

func (f fakeIdentity) GetIdentity() (string, error) { return f.name, f.err }

func TestIdentityAuth(t *testing.T) {
	tests := []struct {
		name string
		auth IdentityAuth
		want bool
	}{
		{"handle set", IdentityAuth{Identity: fakeIdentity{name: "jane"}}, true},
		{"no handle", IdentityAuth{Identity: fakeIdentity{}}, false},
		{"read error", IdentityAuth{Identity: fakeIdentity{name: "jane", err: errors.New("io")}}, false},
		{"nil getter", IdentityAuth{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.auth.IsAuthenticated(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGateClosesOpenDialogOnceAuthenticated(t *testing.T) {
	loggedIn := false
	var states []GateState
	nav := &recordingNav{}
	gate := NewGate(AuthFunc(func() bool { return loggedIn }), nav, nil, func(e Event) {
		if e.Kind == EventGateChanged {
			states = append(states, e.Gate)
		}
	})

	gate.RequestPrivilegedAction()
	loggedIn = true
	if got := gate.RequestPrivilegedAction(); got != GateClosed {
		t.Errorf("got %s, want closed", got)
	}

	if gate.State() != GateClosed {
		t.Errorf("state: got %s, want closed", gate.State())
	}
	if nav.composer != 1 {
		t.Errorf("composer calls: got %d, want 1", nav.composer)
	}
	want := []GateState{GateConfirmOpen, GateClosed}
	if len(states) != len(want) || states[0] != want[0] || states[1] != want[1] {
		t.Errorf("gate events: got %v, want %v", states, want)
	}
}
