// Package chat provides the chat view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/components/entry"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
)

// loadingText follows the spinner on loading entries.
const loadingText = "Thinking..."

// Feed is the displayed chat log the view draws from.
type Feed interface {
	// Entries returns the displayed entries in order.
	Entries() []domain.ChatEntry

	// Visible reports whether a collapsible body is shown.
	Visible(collapsedID string) bool

	// Listen waits for the next change and reports it as messages.LogChanged.
	Listen() tea.Cmd
}

// View is the chat screen: log viewport, input line and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	statusbar *status.Bar
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	renderer  *entry.Renderer

	chat driving.ChatController
	feed Feed
	ctx  context.Context

	// selected is the CollapsedID of the selected entry, or "".
	selected string

	// submitting is set from enter until QueryCompleted arrives. The
	// controller only leaves Idle once the command runs.
	submitting bool

	width    int
	height   int
	ready    bool
	showHelp bool
	err      error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chat driving.ChatController, feed Feed) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	bar := status.NewBar(s, km)
	mode := chat.Mode()
	bar.SetMode(mode.Name, mode.AgentToggle)
	bar.SetAgent(chat.AgentMode())

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewChatInput(s),
		statusbar: bar,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		help:      help.New(),
		renderer:  entry.NewRenderer(s),
		chat:      chat,
		feed:      feed,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.refresh(true)
	return v
}

// WithContext sets the context used for backend calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.spinner.Tick, v.feed.Listen())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LogChanged:
		v.refresh(msg.Follow)
		return v, v.feed.Listen()

	case messages.QueryCompleted:
		v.submitting = false
		v.statusbar.Clear()
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrEmptyQuery) {
			v.setError(msg.Err)
		}
		return v, nil

	case messages.AgentToggled:
		v.statusbar.SetAgent(msg.Mode)
		if msg.Err != nil && !errors.Is(msg.Err, domain.ErrTogglePending) {
			v.setError(msg.Err)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		if v.hasLoading() {
			v.refresh(false)
		}
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Submit):
		return v.handleEnter()

	case keymap.Matches(key, v.keymap.ToggleAgent):
		return v, v.toggleAgent()

	case keymap.Matches(key, v.keymap.Clear):
		v.chat.Clear()
		v.selected = ""
		v.statusbar.Clear()
		v.err = nil
		return v, nil

	case keymap.Matches(key, v.keymap.Up):
		v.moveSelection(-1)
		return v, nil

	case keymap.Matches(key, v.keymap.Down):
		v.moveSelection(1)
		return v, nil

	case keymap.Matches(key, v.keymap.Expand):
		return v, v.toggleSelected()

	case keymap.Matches(key, v.keymap.Cancel):
		v.selected = ""
		v.statusbar.SetState(v.idleState())
		v.refresh(false)
		return v, nil

	case keymap.Matches(key, v.keymap.PageUp):
		v.viewport.SetYOffset(v.viewport.YOffset - v.viewport.Height/2)
		return v, nil

	case keymap.Matches(key, v.keymap.PageDown):
		v.viewport.SetYOffset(v.viewport.YOffset + v.viewport.Height/2)
		return v, nil

	case keymap.Matches(key, v.keymap.Help):
		v.showHelp = !v.showHelp
		v.layout()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleEnter submits typed text, or expands the selected entry when the
// input is empty.
func (v *View) handleEnter() (*View, tea.Cmd) {
	text := v.input.Value()
	if strings.TrimSpace(text) == "" {
		if v.selected != "" {
			return v, v.toggleSelected()
		}
		return v, nil
	}
	if v.submitting || v.chat.State() == domain.StateAwaitingResponse {
		return v, nil
	}

	v.submitting = true
	v.input.Reset()
	v.selected = ""
	v.err = nil
	v.statusbar.Clear()
	v.statusbar.SetState(status.StateAwaiting)

	chat := v.chat
	ctx := v.ctx
	return v, func() tea.Msg {
		return messages.QueryCompleted{Err: chat.Submit(ctx, text)}
	}
}

func (v *View) toggleAgent() tea.Cmd {
	if !v.chat.Mode().AgentToggle || v.chat.AgentMode() == domain.AgentPending {
		return nil
	}
	v.statusbar.SetAgent(domain.AgentPending)

	chat := v.chat
	ctx := v.ctx
	return func() tea.Msg {
		err := chat.ToggleAgent(ctx)
		return messages.AgentToggled{Mode: chat.AgentMode(), Err: err}
	}
}

func (v *View) toggleSelected() tea.Cmd {
	if v.selected == "" {
		return nil
	}
	id := v.selected
	expanded := v.chat.ToggleEntry(id)
	return func() tea.Msg {
		return messages.EntryToggled{CollapsedID: id, Expanded: expanded}
	}
}

// moveSelection steps through collapsible entries. Moving past either end
// clears the selection.
func (v *View) moveSelection(delta int) {
	ids := v.collapsibleIDs()
	if len(ids) == 0 {
		v.selected = ""
		return
	}

	idx := -1
	for i, id := range ids {
		if id == v.selected {
			idx = i
			break
		}
	}

	switch {
	case idx == -1 && delta < 0:
		idx = len(ids) - 1
	case idx == -1:
		idx = 0
	default:
		idx += delta
	}

	if idx < 0 || idx >= len(ids) {
		v.selected = ""
	} else {
		v.selected = ids[idx]
	}
	v.statusbar.SetState(v.idleState())
	v.refresh(false)
}

func (v *View) collapsibleIDs() []string {
	var ids []string
	for _, e := range v.feed.Entries() {
		if e.Collapsible() {
			ids = append(ids, e.CollapsedID)
		}
	}
	return ids
}

func (v *View) idleState() status.State {
	switch {
	case v.chat.State() == domain.StateAwaitingResponse:
		return status.StateAwaiting
	case v.selected != "":
		return status.StateSelecting
	default:
		return status.StateReady
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) hasLoading() bool {
	for _, e := range v.feed.Entries() {
		if e.Kind == domain.KindLoading {
			return true
		}
	}
	return false
}

// refresh redraws the log into the viewport.
func (v *View) refresh(follow bool) {
	entries := v.feed.Entries()

	if v.selected != "" {
		found := false
		for _, e := range entries {
			if e.CollapsedID == v.selected {
				found = true
				break
			}
		}
		if !found {
			v.selected = ""
		}
	}

	width := v.viewport.Width - 2
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, v.renderEntry(e, width))
	}

	v.viewport.SetContent(strings.Join(blocks, "\n\n"))
	if follow {
		v.viewport.GotoBottom()
	}
}

func (v *View) renderEntry(e domain.ChatEntry, width int) string {
	var text string
	if e.Kind == domain.KindLoading {
		text = v.spinner.View() + " " + v.styles.Muted.Render(loadingText)
	} else {
		text = v.renderer.Entry(e, v.feed.Visible(e.CollapsedID), width)
	}

	gutter := "  "
	if e.Collapsible() && e.CollapsedID == v.selected {
		gutter = v.styles.Selected.Render(">") + " "
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = gutter + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	parts := []string{
		v.viewport.View(),
		v.input.View(),
		v.statusbar.View(),
	}
	if v.showHelp {
		parts = append(parts, v.help.FullHelpView(v.keymap.FullHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

// layout sizes the components to the current dimensions.
func (v *View) layout() {
	v.input.SetWidth(v.width)
	v.statusbar.SetWidth(v.width)
	v.help.Width = v.width

	reserved := v.input.Height() + 1
	if v.showHelp {
		reserved += lipgloss.Height(v.help.FullHelpView(v.keymap.FullHelp()))
	}
	vpHeight := v.height - reserved
	if vpHeight < 3 {
		vpHeight = 3
	}

	v.viewport.Width = v.width
	v.viewport.Height = vpHeight
	v.refresh(true)
}

// Selected returns the CollapsedID of the selected entry, or "".
func (v *View) Selected() string {
	return v.selected
}

// InputValue returns the text currently typed.
func (v *View) InputValue() string {
	return v.input.Value()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// Ready reports whether the view has received its dimensions.
func (v *View) Ready() bool {
	return v.ready
}
