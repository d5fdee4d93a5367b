// ABOUTME: Create-post view reached through the feed's authentication gate.
// ABOUTME: Publishes asynchronously and appends the new post to the mounted feed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/storage"
)

type publishResultMsg struct {
	post *models.SocialPost
	err  error
}

// ComposerModel is the create-post form.
type ComposerModel struct {
	inputs     [2]textinput.Model
	focus      int
	publisher  *storage.Publisher
	screen     *feed.Screen
	nav        *navigator
	cancelCtx  *cancelHolder
	publishing bool
	err        error
}

// NewComposerModel creates the composer.
func NewComposerModel(publisher *storage.Publisher, screen *feed.Screen, nav *navigator) ComposerModel {
	m := ComposerModel{
		publisher: publisher,
		screen:    screen,
		nav:       nav,
		cancelCtx: &cancelHolder{},
	}
	return m.Reset()
}

// Reset clears the form.
func (m ComposerModel) Reset() ComposerModel {
	content := textinput.New()
	content.Placeholder = "What's on your mind?"
	content.CharLimit = 500
	content.Width = 60
	content.Focus()

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated (optional)"
	tags.Width = 60

	m.inputs = [2]textinput.Model{content, tags}
	m.focus = 0
	m.publishing = false
	m.err = nil
	return m
}

// Init implements tea.Model.
func (m ComposerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m ComposerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case publishResultMsg:
		m.cancelCtx.cancel = nil
		m.publishing = false
		var syncErr *storage.SyncError
		if msg.err != nil && !errors.As(msg.err, &syncErr) {
			m.err = msg.err
			return m, nil
		}
		if msg.post != nil {
			m.screen.Store().Append([]models.Post{msg.post.FeedPost(time.Now())})
		}
		m.nav.GoToFeed()
		return m, nil

	case tea.KeyMsg:
		if m.publishing {
			if msg.Type == tea.KeyEscape {
				m.cancel()
				m.publishing = false
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEscape:
			m.nav.GoToFeed()
			return m, nil
		case tea.KeyTab, tea.KeyShiftTab:
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + 1) % len(m.inputs)
			m.inputs[m.focus].Focus()
			return m, textinput.Blink
		case tea.KeyEnter:
			if m.focus == 0 {
				if strings.TrimSpace(m.inputs[0].Value()) == "" {
					m.err = fmt.Errorf("post content is required")
					return m, nil
				}
				m.inputs[0].Blur()
				m.focus = 1
				m.inputs[1].Focus()
				return m, textinput.Blink
			}
			return m.startPublish()
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ComposerModel) startPublish() (tea.Model, tea.Cmd) {
	content := m.inputs[0].Value()
	if strings.TrimSpace(content) == "" {
		m.err = fmt.Errorf("post content is required")
		return m, nil
	}
	tags := storage.ParseTags(m.inputs[1].Value())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	m.cancelCtx.cancel = cancel
	m.publishing = true
	m.err = nil
	pub := m.publisher
	return m, func() tea.Msg {
		defer cancel()
		post, err := pub.Publish(ctx, content, tags, nil)
		return publishResultMsg{post: post, err: err}
	}
}

func (m ComposerModel) cancel() {
	if m.cancelCtx.cancel != nil {
		m.cancelCtx.cancel()
		m.cancelCtx.cancel = nil
	}
}

// View implements tea.Model.
func (m ComposerModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SOCIALIFY"))
	b.WriteString(titleStyle.Render(" - New Post"))
	b.WriteString("\n\n")

	b.WriteString(stepStyle.Render("Content"))
	b.WriteString("\n")
	b.WriteString(m.inputs[0].View())
	b.WriteString("\n\n")
	b.WriteString(stepStyle.Render("Tags"))
	b.WriteString("\n")
	b.WriteString(m.inputs[1].View())
	b.WriteString("\n\n")

	switch {
	case m.publishing:
		b.WriteString("Publishing...")
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render("tab switch field  enter next/publish  esc back"))
	b.WriteString("\n")
	return b.String()
}
