// ABOUTME: Top-level bubbletea model routing between feed, composer, login and profile views.
// ABOUTME: The navigator records navigation requests made by the feed gate and profile editor.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/2389-research/socialify/internal/feed"
	"github.com/2389-research/socialify/internal/models"
	"github.com/2389-research/socialify/internal/profile"
	"github.com/2389-research/socialify/internal/storage"
)

// Route identifies the active view.
type Route int

const (
	RouteFeed Route = iota
	RouteComposer
	RouteLogin
	RouteProfile
)

func (r Route) String() string {
	switch r {
	case RouteFeed:
		return "feed"
	case RouteComposer:
		return "composer"
	case RouteLogin:
		return "login"
	case RouteProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// navigator implements feed.Navigator and profile.Navigator. It is shared by
// pointer so requests made inside a sub-model are visible to AppModel.
type navigator struct {
	next    Route
	pending bool
}

func (n *navigator) goTo(r Route) {
	n.next = r
	n.pending = true
}

func (n *navigator) GoToAuthentication() { n.goTo(RouteLogin) }
func (n *navigator) GoToComposer()       { n.goTo(RouteComposer) }
func (n *navigator) GoToFeed()           { n.goTo(RouteFeed) }
func (n *navigator) GoToProfile()        { n.goTo(RouteProfile) }

func (n *navigator) take() (Route, bool) {
	if !n.pending {
		return 0, false
	}
	n.pending = false
	return n.next, true
}

// AppConfig configures the terminal app.
type AppConfig struct {
	// Screen configures the feed engine. Nav is always replaced by the app's
	// navigator; a nil Auth checks the store's identity.
	Screen feed.ScreenConfig

	// Seed is mounted into the feed on start.
	Seed []models.Post

	// Threshold is the prefetch trigger fraction of the viewport.
	Threshold float64

	Store     storage.SocialStore
	Publisher *storage.Publisher
	Logger    *slog.Logger
}

// AppModel is the root bubbletea model.
type AppModel struct {
	route    Route
	nav      *navigator
	feed     FeedModel
	composer ComposerModel
	login    LoginModel
	profile  ProfileModel
	quitting bool
}

// NewApp builds the feed screen and every view.
func NewApp(cfg AppConfig) (AppModel, error) {
	if cfg.Store == nil {
		return AppModel{}, fmt.Errorf("social store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = storage.NewPublisher(cfg.Store, nil, logger)
	}

	nav := &navigator{}
	status := &statusLine{}

	screenCfg := cfg.Screen
	screenCfg.Nav = nav
	if screenCfg.Auth == nil {
		screenCfg.Auth = feed.IdentityAuth{Identity: cfg.Store}
	}
	if screenCfg.Logger == nil {
		screenCfg.Logger = logger
	}
	observe := screenCfg.Observer
	showStatus := setStatus(status)
	screenCfg.Observer = func(e feed.Event) {
		showStatus(e)
		if observe != nil {
			observe(e)
		}
	}

	screen := feed.NewScreen(screenCfg)
	screen.Mount(cfg.Seed)

	editor, err := profile.NewEditor(cfg.Store, nav, logger)
	if err != nil {
		return AppModel{}, err
	}

	return AppModel{
		route:    RouteFeed,
		nav:      nav,
		feed:     NewFeedModel(screen, nav, cfg.Threshold, status),
		composer: NewComposerModel(publisher, screen, nav),
		login:    NewLoginModel(cfg.Store, nav),
		profile:  NewProfileModel(editor, nav),
	}, nil
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return m.feed.Init()
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if msg.String() == "q" && m.route == RouteFeed && m.feed.screen.Gate().State() == feed.GateClosed {
			return m.quit()
		}

	case fetchResultMsg, spinner.TickMsg, tea.WindowSizeMsg:
		// Feed traffic keeps flowing while another view is on top.
		updated, cmd := m.feed.Update(msg)
		m.feed = updated.(FeedModel)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.route {
	case RouteFeed:
		var updated tea.Model
		updated, cmd = m.feed.Update(msg)
		m.feed = updated.(FeedModel)
	case RouteComposer:
		var updated tea.Model
		updated, cmd = m.composer.Update(msg)
		m.composer = updated.(ComposerModel)
	case RouteLogin:
		var updated tea.Model
		updated, cmd = m.login.Update(msg)
		m.login = updated.(LoginModel)
	case RouteProfile:
		var updated tea.Model
		updated, cmd = m.profile.Update(msg)
		m.profile = updated.(ProfileModel)
	}

	navCmd := m.navigate()
	return m, tea.Batch(cmd, navCmd)
}

// navigate switches views when a sub-model requested it.
func (m *AppModel) navigate() tea.Cmd {
	next, ok := m.nav.take()
	if !ok {
		return nil
	}
	m.route = next
	switch next {
	case RouteComposer:
		m.composer = m.composer.Reset()
		return m.composer.Init()
	case RouteLogin:
		m.login = m.login.Reset()
		return m.login.Init()
	case RouteProfile:
		m.profile = m.profile.Reset()
	}
	return nil
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.feed.Close()
	return m, tea.Quit
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.route {
	case RouteComposer:
		return m.composer.View()
	case RouteLogin:
		return m.login.View()
	case RouteProfile:
		return m.profile.View()
	default:
		return m.feed.View()
	}
}

// Route returns the active view.
func (m AppModel) Route() Route {
	return m.route
}
