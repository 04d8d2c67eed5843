// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import "github.com/custodia-labs/querychat/internal/core/domain"

// LogChanged is sent when the chat log surface changed and should be redrawn.
type LogChanged struct {
	// Follow is true when the surface asked to scroll to the newest entry.
	Follow bool
}

// ViewType identifies a screen of the TUI.
type ViewType int

// Available views.
const (
	ViewChat ViewType = iota
	ViewSettings
)

// ViewChanged requests a switch to another view.
type ViewChanged struct {
	View ViewType
}

// QueryCompleted is sent when a submission has been fully handled.
// Err is informational; failures are already shown in the log.
type QueryCompleted struct {
	Err error
}

// AgentToggled is sent when an agent toggle request finished.
type AgentToggled struct {
	Mode domain.AgentMode
	Err  error
}

// EntryToggled is sent when a collapsible entry was expanded or collapsed.
type EntryToggled struct {
	CollapsedID string
	Expanded    bool
}

// SettingsLoaded is sent when settings have been read.
type SettingsLoaded struct {
	Values map[string]string
	Err    error
}

// SettingsSaved is sent when a single setting has been written.
type SettingsSaved struct {
	Key string
	Err error
}

// SettingsChanged is sent when the settings were edited elsewhere.
type SettingsChanged struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
