// Package status provides the status bar for the chat TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

// State represents the current chat state for display.
type State string

const (
	StateReady     State = "ready"
	StateAwaiting  State = "awaiting"
	StateError     State = "error"
	StateSelecting State = "selecting"
)

// Bar displays mode, agent state and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	mode        domain.ModeName
	agentToggle bool
	agent       domain.AgentMode
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		agent:  domain.AgentOff,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders mode, agent state and the current status.
func (s *Bar) renderLeft() string {
	parts := make([]string, 0, 3)
	if s.mode != "" {
		parts = append(parts, s.styles.Subtitle.Render(string(s.mode)))
	}
	if s.agentToggle {
		parts = append(parts, s.renderAgent())
	}

	switch s.state {
	case StateAwaiting:
		parts = append(parts, s.styles.Muted.Render("Waiting for response..."))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message)))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateSelecting:
		parts = append(parts, s.styles.Normal.Render("Selecting"))
	case StateReady:
		parts = append(parts, s.styles.Muted.Render("Ready"))
	}
	return strings.Join(parts, " ")
}

func (s *Bar) renderAgent() string {
	switch s.agent {
	case domain.AgentOn:
		return s.styles.Success.Render("agent: on")
	case domain.AgentPending:
		return s.styles.Warning.Render("agent: switching")
	default:
		return s.styles.Muted.Render("agent: off")
	}
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case s.state == StateSelecting:
		bindings = s.keymap.SelectionHelp()
	case s.agentToggle:
		bindings = s.keymap.AgentHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetMode sets the displayed mode and whether it has the agent toggle.
func (s *Bar) SetMode(mode domain.ModeName, agentToggle bool) {
	s.mode = mode
	s.agentToggle = agentToggle
}

// SetAgent sets the displayed agent state.
func (s *Bar) SetAgent(agent domain.AgentMode) {
	s.agent = agent
}

// Agent returns the displayed agent state.
func (s *Bar) Agent() domain.AgentMode {
	return s.agent
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to its ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
