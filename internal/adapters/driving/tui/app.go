package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the global keybindings.
	keymap *keymap.KeyMap

	// currentView tracks which view receives key presses.
	currentView messages.ViewType

	// chatView is the chat screen.
	chatView *chat.View

	// settingsView is nil when no settings service was provided.
	settingsView *settings.View

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		currentView: messages.ViewChat,
		chatView:    chat.NewView(s, km, ports.Chat, ports.Surface),
	}
	if ports.Settings != nil {
		a.settingsView = settings.NewView(s, ports.Settings)
	}
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle(a.title()),
		a.chatView.Init(),
		a.listenSettings(),
	)
}

// listenSettings waits for the next external settings change. It returns
// nil when nobody reports changes.
func (a *App) listenSettings() tea.Cmd {
	changes := a.ports.SettingsChanges
	if changes == nil || a.settingsView == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return messages.SettingsChanged{}
	}
}

func (a *App) title() string {
	return fmt.Sprintf("querychat - %s", a.ports.Chat.Mode().Name)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		if a.settingsView != nil {
			a.settingsView.SetDimensions(msg.Width, msg.Height)
		}

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewSettings {
			a.settingsView, cmd = a.settingsView.Update(msg)
			return a, cmd
		}
		if keymap.Matches(msg.String(), a.keymap.Settings) && a.settingsView != nil {
			return a, a.switchView(messages.ViewSettings)
		}

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.SettingsChanged:
		if a.currentView == messages.ViewSettings && !a.settingsView.Editing() {
			cmd = a.settingsView.Init()
		}
		return a, tea.Batch(cmd, a.listenSettings())

	case messages.SettingsLoaded, messages.SettingsSaved:
		if a.settingsView != nil {
			a.settingsView, cmd = a.settingsView.Update(msg)
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	// The chat view keeps receiving background messages while hidden so
	// the log listener and spinner stay alive.
	a.chatView, cmd = a.chatView.Update(msg)
	if err := a.chatView.Err(); err != nil {
		a.err = err
	}
	return a, cmd
}

// switchView activates view and returns its initial command.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	if view == messages.ViewSettings && a.settingsView == nil {
		return nil
	}
	a.currentView = view
	if view == messages.ViewSettings {
		a.settingsView.Reset()
		return a.settingsView.Init()
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewSettings {
		return a.settingsView.View()
	}
	return a.chatView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Entries returns the entries currently displayed.
func (a *App) Entries() []domain.ChatEntry {
	return a.ports.Surface.Entries()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chatView.SetDimensions(width, height)
	if a.settingsView != nil {
		a.settingsView.SetDimensions(width, height)
	}
}
