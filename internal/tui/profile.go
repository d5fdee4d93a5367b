// ABOUTME: Profile view: shows the saved profile, edits it, and confirms logout.
// ABOUTME: All state transitions are delegated to profile.Editor.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/socialify/internal/profile"
)

// ProfileModel renders a profile.Editor.
type ProfileModel struct {
	editor *profile.Editor
	nav    *navigator
	inputs [2]textinput.Model
	focus  int
	err    error
}

// NewProfileModel creates the profile view.
func NewProfileModel(editor *profile.Editor, nav *navigator) ProfileModel {
	name := textinput.New()
	name.Placeholder = "Full Name"
	name.Width = 40

	email := textinput.New()
	email.Placeholder = "Email"
	email.Width = 40

	return ProfileModel{
		editor: editor,
		nav:    nav,
		inputs: [2]textinput.Model{name, email},
	}
}

// Reset drops any open dialog, as when the view is entered.
func (m ProfileModel) Reset() ProfileModel {
	m.editor.Discard()
	m.editor.CancelLogout()
	m.err = nil
	return m
}

// Init implements tea.Model.
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.editor.Mode() {
	case profile.ModeEditing:
		return m.updateEditing(key)
	case profile.ModeConfirmLogout:
		switch key.String() {
		case "y", "enter":
			if err := m.editor.ConfirmLogout(); err != nil {
				m.err = err
			}
		case "n", "esc":
			m.editor.CancelLogout()
		}
		return m, nil
	}

	m.err = nil
	switch key.String() {
	case "e":
		if err := m.editor.Open(); err != nil {
			m.err = err
			return m, nil
		}
		name, email := m.editor.Draft()
		m.inputs[0].SetValue(name)
		m.inputs[1].SetValue(email)
		m.focus = 0
		m.inputs[1].Blur()
		m.inputs[0].Focus()
		return m, textinput.Blink
	case "o":
		if err := m.editor.RequestLogout(); err != nil {
			m.err = err
		}
	case "esc", "b":
		m.nav.GoToFeed()
	}
	return m, nil
}

func (m ProfileModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEscape:
		m.editor.Discard()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		m.inputs[m.focus].Focus()
		return m, textinput.Blink
	case tea.KeyEnter:
		m.editor.SetDraft(m.inputs[0].Value(), m.inputs[1].Value())
		// A failed save keeps the editor open with its error set.
		_ = m.editor.Save()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

// View implements tea.Model.
func (m ProfileModel) View() string {
	p := m.editor.Profile()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SOCIALIFY"))
	b.WriteString(titleStyle.Render(" - Profile"))
	b.WriteString("\n\n")
	b.WriteString(authorStyle.Render(p.FullName))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(p.Email))
	b.WriteString("\n")
	b.WriteString(mediaStyle.Render("[avatar] " + p.AvatarURL))
	b.WriteString("\n\n")

	switch m.editor.Mode() {
	case profile.ModeEditing:
		var form strings.Builder
		form.WriteString(dialogTitle.Render("Edit Profile"))
		form.WriteString("\n\n")
		if err := m.editor.Err(); err != nil {
			form.WriteString(errorStyle.Render(capitalize(err.Error())))
			form.WriteString("\n")
		}
		form.WriteString(m.inputs[0].View())
		form.WriteString("\n")
		form.WriteString(m.inputs[1].View())
		form.WriteString("\n\n")
		form.WriteString(helpStyle.Render("tab switch field  enter save  esc cancel"))
		b.WriteString(dialogStyle.Render(form.String()))
		b.WriteString("\n")

	case profile.ModeConfirmLogout:
		b.WriteString(dialogStyle.Render(
			dialogTitle.Render("Confirm Logout") + "\n\n" +
				"Are you sure you want to log out?\n\n" +
				helpStyle.Render("[y] logout  [n] cancel"),
		))
		b.WriteString("\n")

	default:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("e edit profile  o logout  esc back"))
		b.WriteString("\n")
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
