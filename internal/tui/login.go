// ABOUTME: Login view that records the viewer's handle.
// ABOUTME: Credential checks are out of scope; a non-empty handle logs the viewer in.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// IdentitySetter persists the logged-in handle.
type IdentitySetter interface {
	SetIdentity(name string) error
}

// LoginModel is the login form.
type LoginModel struct {
	input textinput.Model
	store IdentitySetter
	nav   *navigator
	err   error
}

// NewLoginModel creates the login form.
func NewLoginModel(store IdentitySetter, nav *navigator) LoginModel {
	m := LoginModel{store: store, nav: nav}
	return m.Reset()
}

// Reset clears the form.
func (m LoginModel) Reset() LoginModel {
	input := textinput.New()
	input.Placeholder = "your handle"
	input.CharLimit = 64
	input.Width = 40
	input.Focus()
	m.input = input
	m.err = nil
	return m
}

// Init implements tea.Model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyEscape:
		m.nav.GoToFeed()
		return m, nil
	case tea.KeyEnter:
		handle := strings.TrimSpace(m.input.Value())
		if handle == "" {
			m.err = fmt.Errorf("handle is required")
			return m, nil
		}
		if err := m.store.SetIdentity(handle); err != nil {
			m.err = fmt.Errorf("failed to set identity: %w", err)
			return m, nil
		}
		m.nav.GoToFeed()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

// View implements tea.Model.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SOCIALIFY"))
	b.WriteString(titleStyle.Render(" - Log In"))
	b.WriteString("\n\n")
	b.WriteString(stepStyle.Render("Handle"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(promptStyle.Render("enter log in  esc back"))
	b.WriteString("\n")
	return b.String()
}
