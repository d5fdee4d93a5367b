// ABOUTME: Bubbletea view of the feed screen: scrolling list, likes, create-post gate.
// ABOUTME: Fetches run as tea.Cmds and their results are applied back on the event loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/socialify/internal/feed"
)

const (
	linesPerPost   = 5
	feedChromeRows = 6
	defaultVisible = 3
)

var (
	authorStyle   = lipgloss.NewStyle().Bold(true)
	captionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	mediaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	likedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("212")).Padding(0, 2)
	dialogTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("212")).PaddingLeft(1)
)

// fetchResultMsg carries a finished fetch back to the event loop.
type fetchResultMsg struct {
	res feed.FetchResult
}

// lifetime holds the context that in-flight fetches run under. It is shared
// across model copies so cancelling it reaches every outstanding fetch.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() *lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &lifetime{ctx: ctx, cancel: cancel}
}

// statusLine is written by the screen observer and read by View.
type statusLine struct {
	text string
}

// FeedModel renders a feed.Screen.
type FeedModel struct {
	screen    *feed.Screen
	nav       *navigator
	spinner   spinner.Model
	threshold float64
	cursor    int
	top       int
	height    int
	life      *lifetime
	status    *statusLine

	// exhausted is set when a fetch brought nothing new. Scrolling no longer
	// fetches until the viewer asks with m.
	exhausted bool
}

// NewFeedModel creates a feed view over an already mounted screen.
func NewFeedModel(screen *feed.Screen, nav *navigator, threshold float64, status *statusLine) FeedModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if status == nil {
		status = &statusLine{}
	}
	return FeedModel{
		screen:    screen,
		nav:       nav,
		spinner:   s,
		threshold: threshold,
		life:      newLifetime(),
		status:    status,
	}
}

// Init implements tea.Model. A short seed list triggers the first fetch.
func (m FeedModel) Init() tea.Cmd {
	return m.maybeFetch()
}

// Update implements tea.Model.
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, m.maybeFetch()

	case fetchResultMsg:
		outcome, inserted := m.screen.Pager().Complete(msg.res)
		if outcome != feed.OutcomeAppended {
			return m, nil
		}
		m.exhausted = inserted == 0
		// Keep filling while the list is still shorter than the viewport.
		return m, m.maybeFetch()

	case spinner.TickMsg:
		if m.screen.Pager().State() == feed.PageFetching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.screen.Gate().State() == feed.GateConfirmOpen {
			return m.updateDialog(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m FeedModel) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.screen.Gate().ConfirmAndRedirect()
	case "n", "esc":
		m.screen.Gate().Cancel()
	}
	return m, nil
}

func (m FeedModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.screen.Store().Len()
	switch msg.String() {
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
		m.scroll()
		return m, m.maybeFetch()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
		return m, nil
	case "l", " ":
		posts := m.screen.Store().All()
		if m.cursor < len(posts) {
			m.screen.Likes().Toggle(posts[m.cursor].ID)
		}
		return m, nil
	case "c":
		m.screen.Gate().RequestPrivilegedAction()
		return m, nil
	case "m":
		m.exhausted = false
		return m, m.startFetch()
	case "p":
		if m.nav != nil {
			m.nav.GoToProfile()
		}
		return m, nil
	}
	return m, nil
}

func (m *FeedModel) scroll() {
	visible := m.visible()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+visible {
		m.top = m.cursor - visible + 1
	}
}

func (m FeedModel) visible() int {
	if m.height <= 0 {
		return defaultVisible
	}
	rows := (m.height - feedChromeRows) / linesPerPost
	if rows < 1 {
		return 1
	}
	return rows
}

// maybeFetch asks for more posts when the unseen part of the list is short.
func (m FeedModel) maybeFetch() tea.Cmd {
	if m.exhausted {
		return nil
	}
	visible := m.visible()
	remaining := m.screen.Store().Len() - (m.top + visible)
	if remaining < 0 {
		remaining = 0
	}
	if !feed.NearEnd(remaining, visible, m.threshold) {
		return nil
	}
	return m.startFetch()
}

func (m FeedModel) startFetch() tea.Cmd {
	f := m.screen.Pager().RequestMore()
	if f == nil {
		return nil
	}
	ctx := m.life.ctx
	return tea.Batch(func() tea.Msg {
		return fetchResultMsg{res: f.Run(ctx)}
	}, m.spinner.Tick)
}

// Close tears the screen down and cancels any in-flight fetch.
func (m FeedModel) Close() {
	m.screen.Unmount()
	m.life.cancel()
}

// View implements tea.Model.
func (m FeedModel) View() string {
	snap := m.screen.Snapshot()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SOCIALIFY"))
	b.WriteString(titleStyle.Render(" - Explore"))
	b.WriteString("\n\n")

	if len(snap.Posts) == 0 {
		b.WriteString(promptStyle.Render("  No posts yet."))
		b.WriteString("\n")
	}

	end := m.top + m.visible()
	if end > len(snap.Posts) {
		end = len(snap.Posts)
	}
	for i := m.top; i < end; i++ {
		b.WriteString(renderPost(snap.Posts[i], i == m.cursor))
		b.WriteString("\n")
	}

	switch {
	case snap.Page == feed.PageFetching:
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading more posts...")
		b.WriteString("\n")
	case snap.LastErr != nil:
		b.WriteString(noticeStyle.Render(fmt.Sprintf("! %v (press m to retry)", snap.LastErr)))
		b.WriteString("\n")
	case m.status.text != "":
		b.WriteString(helpStyle.Render(m.status.text))
		b.WriteString("\n")
	}

	if snap.Gate == feed.GateConfirmOpen {
		b.WriteString("\n")
		b.WriteString(dialogStyle.Render(
			dialogTitle.Render("Login Required") + "\n\n" +
				"You need to log in to create a post.\n\n" +
				helpStyle.Render("[y] go to login  [n] cancel"),
		))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k move  l like  c create post  m load more  p profile  q quit"))
	b.WriteString("\n")
	return b.String()
}

func renderPost(p feed.PostView, selected bool) string {
	heart := "♡"
	if p.Liked {
		heart = likedStyle.Render("♥")
	}

	var b strings.Builder
	b.WriteString(authorStyle.Render("@" + p.Author))
	b.WriteString(helpStyle.Render("  " + p.TimeLabel))
	b.WriteString("\n")
	if p.MediaURL != "" {
		b.WriteString(mediaStyle.Render("[image] " + p.MediaURL))
		b.WriteString("\n")
	}
	b.WriteString(captionStyle.Render(p.Caption))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d   💬 %d", heart, p.DisplayLikes, p.Comments))

	if selected {
		return selectedStyle.Render(b.String())
	}
	return "  " + strings.ReplaceAll(b.String(), "\n", "\n  ")
}

// setStatus returns an observer that records a short status message for
// events the list does not otherwise show.
func setStatus(status *statusLine) feed.Observer {
	return func(e feed.Event) {
		switch e.Kind {
		case feed.EventFetchStarted:
			status.text = ""
		case feed.EventDuplicatesSkipped:
			status.text = fmt.Sprintf("skipped %d duplicate post(s)", len(e.IDs))
		case feed.EventFetchCompleted:
			if e.Count == 0 && status.text == "" {
				status.text = "end of feed (press m to check again)"
			}
		case feed.EventEvicted:
			status.text = fmt.Sprintf("dropped %d older post(s)", len(e.IDs))
		}
	}
}
