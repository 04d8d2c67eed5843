package driving

import (
	"context"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

// ChatController owns the query lifecycle and the chat log.
type ChatController interface {
	// Submit sends text to the backend and appends the rendered outcome.
	// Empty text and submits while a query is outstanding are no-ops
	// reported as domain.ErrEmptyQuery and domain.ErrQueryInFlight.
	// Backend failures are rendered into the log, not returned.
	Submit(ctx context.Context, text string) error

	// ToggleAgent flips agent mode with an optimistic update.
	// A toggle while one is pending returns domain.ErrTogglePending.
	ToggleAgent(ctx context.Context) error

	// SetAgentMode requests a specific agent mode. It is a no-op when
	// the mode already matches.
	SetAgentMode(ctx context.Context, on bool) error

	// Clear restores the log to its initial snapshot.
	Clear()

	// ToggleEntry flips the body visibility of a collapsible entry.
	// Returns the new visibility.
	ToggleEntry(collapsedID string) bool

	// Entries returns a copy of the log.
	Entries() []domain.ChatEntry

	// Expanded reports whether a collapsible entry's body is visible.
	Expanded(collapsedID string) bool

	// AgentMode returns the agent toggle state.
	AgentMode() domain.AgentMode

	// State returns the query lifecycle state.
	State() domain.ChatState

	// Mode returns the mode configuration.
	Mode() domain.ModeConfig
}
