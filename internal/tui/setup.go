// ABOUTME: Interactive TUI wizard that picks the feed source and, when needed, remote API credentials.
// ABOUTME: Synthetic finishes at once, local can opt into remote sync, remote always checks the connection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/socialify/internal/storage"
)

// DefaultAPIURL points at the local development server started by `socialify serve`.
const DefaultAPIURL = "http://127.0.0.1:8787"

// Feed source names, matching the feed.source config values.
const (
	SourceSynthetic = "synthetic"
	SourceLocal     = "local"
	SourceRemote    = "remote"
)

// SourceChoice is one entry in the source picker.
type SourceChoice struct {
	Name  string
	Blurb string
}

// SourceChoices lists the feed sources in picker order.
var SourceChoices = []SourceChoice{
	{Name: SourceSynthetic, Blurb: "generated demo posts, nothing to connect"},
	{Name: SourceLocal, Blurb: "posts from the local social store, optional remote sync"},
	{Name: SourceRemote, Blurb: "posts from a team posts API"},
}

// Step represents the current wizard step.
type Step int

const (
	StepSource Step = iota
	StepSync
	StepAPIURL
	StepTeamID
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

// SetupValues is what the wizard starts from and hands back.
type SetupValues struct {
	Source string
	APIURL string
	TeamID string
	APIKey string
}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn is the function signature for connection validation.
type ValidateFn func(ctx context.Context, apiURL, apiKey, teamID string) error

// cancelHolder shares a cancel function across bubbletea model copies.
// Value-receiver methods store the cancel func here so every copy sees it.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	choice        int
	connect       bool
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	choiceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// NewSetupModel creates the wizard with the picker on the current source and
// the credential inputs pre-filled from current.
func NewSetupModel(current SetupValues) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = DefaultAPIURL
	urlInput.Width = 50
	urlInput.SetValue(current.APIURL)

	teamInput := textinput.New()
	teamInput.Placeholder = "your-team-id"
	teamInput.Width = 50
	teamInput.SetValue(current.TeamID)

	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	keyInput.SetValue(current.APIKey)

	s := spinner.New()
	s.Spinner = spinner.Dot

	choice := 0
	for i, c := range SourceChoices {
		if c.Name == current.Source {
			choice = i
		}
	}

	return SetupModel{
		step:       StepSource,
		choice:     choice,
		inputs:     [3]textinput.Model{urlInput, teamInput, keyInput},
		spinner:    s,
		validateFn: ValidateConnection,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepSource:
			return m.updateSource(msg)
		case StepSync:
			return m.updateSync(msg)
		case StepAPIURL, StepTeamID, StepAPIKey:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateSource(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.choice > 0 {
			m.choice--
		}
	case "down", "j":
		if m.choice < len(SourceChoices)-1 {
			m.choice++
		}
	case "1", "2", "3":
		m.choice = int(msg.Runes[0] - '1')
	case "enter":
		switch m.source() {
		case SourceRemote:
			m.connect = true
			return m.enterCredentials()
		case SourceLocal:
			m.step = StepSync
			return m, nil
		default:
			m.connect = false
			m.step = StepDone
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SetupModel) updateSync(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.connect = true
		return m.enterCredentials()
	case "n":
		m.connect = false
		m.step = StepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m SetupModel) enterCredentials() (tea.Model, tea.Cmd) {
	m.step = StepAPIURL
	m.inputs[0].Focus()
	return m, textinput.Blink
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := m.inputIndex()
	if msg.Type == tea.KeyEnter {
		if m.step == StepAPIURL {
			val := m.inputs[0].Value()
			if val == "" {
				m.inputs[0].SetValue(DefaultAPIURL)
			} else {
				m.inputs[0].SetValue(storage.NormalizeAPIURL(val))
			}
		}
		// Team ID and API key are required.
		if m.inputs[idx].Value() == "" {
			return m, nil
		}

		m.inputs[idx].Blur()
		if m.step == StepAPIKey {
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
		m.step++
		m.inputs[m.inputIndex()].Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		m.step = StepValidating
		m.validationErr = nil
		return m, tea.Batch(m.startValidation(), m.spinner.Tick)
	case "e":
		m.validationErr = nil
		return m.enterCredentials()
	case "s":
		m.step = StepDone
		return m, tea.Quit
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	apiURL := m.inputs[0].Value()
	apiKey := m.inputs[2].Value()
	teamID := m.inputs[1].Value()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, apiURL, apiKey, teamID)}
	}
}

func (m SetupModel) source() string {
	return SourceChoices[m.choice].Name
}

func (m SetupModel) inputIndex() int {
	return int(m.step - StepAPIURL)
}

// stepNumber counts the visible steps; remote skips the sync question.
func (m SetupModel) stepNumber() int {
	n := int(m.step) + 1
	if m.step > StepSource && m.source() == SourceRemote {
		n--
	}
	return n
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SOCIALIFY"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")

	switch m.step {
	case StepSource:
		b.WriteString(stepStyle.Render("Step 1: Feed source"))
		b.WriteString("\n\n")
		for i, c := range SourceChoices {
			line := fmt.Sprintf("%d. %-10s %s", i+1, c.Name, c.Blurb)
			if i == m.choice {
				b.WriteString(choiceStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("up/down to move, enter to choose"))
		b.WriteString("\n")

	case StepSync:
		b.WriteString(fmt.Sprintf("  Feed source: %s\n\n", m.source()))
		b.WriteString(stepStyle.Render("Step 2: Remote sync"))
		b.WriteString("\n")
		b.WriteString("Also send new posts to a team posts API? ")
		b.WriteString(promptStyle.Render("[y/n]"))
		b.WriteString("\n")

	case StepAPIURL:
		b.WriteString(fmt.Sprintf("  Feed source: %s\n\n", m.source()))
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d: API URL", m.stepNumber())))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for default)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepTeamID:
		b.WriteString(fmt.Sprintf("  Feed source: %s\n", m.source()))
		b.WriteString(fmt.Sprintf("  API URL: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d: Team ID", m.stepNumber())))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepAPIKey:
		b.WriteString(fmt.Sprintf("  Feed source: %s\n", m.source()))
		b.WriteString(fmt.Sprintf("  API URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Team ID: %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d: API Key", m.stepNumber())))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepValidating:
		b.WriteString(fmt.Sprintf("  API URL: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Team ID: %s\n", m.inputs[1].Value()))
		b.WriteString(fmt.Sprintf("  API Key: %s\n\n", strings.Repeat("*", len(m.inputs[2].Value()))))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking the posts API...")
		b.WriteString("\n")

	case StepDone:
		if m.connect && m.validationErr == nil {
			b.WriteString(successStyle.Render("✓ Connected!"))
			b.WriteString("\n")
		}
		b.WriteString(successStyle.Render(fmt.Sprintf("✓ Feed source: %s", m.source())))
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Connection check failed: %s", errMsg)))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [e]dit  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the chosen source and the credential values. Credentials
// keep their starting values when the chosen path did not ask for them.
func (m SetupModel) Result() SetupValues {
	return SetupValues{
		Source: m.source(),
		APIURL: m.inputs[0].Value(),
		TeamID: m.inputs[1].Value(),
		APIKey: m.inputs[2].Value(),
	}
}

// Connected reports whether the credential steps ran.
func (m SetupModel) Connected() bool {
	return m.connect
}

// ShouldSave returns true if the wizard completed and the user did not
// cancel with Ctrl+C, Escape, or 'q'.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
