// Package tui provides an interactive terminal chat for querychat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
)

// Ports aggregates the dependencies required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat owns the query lifecycle and the chat log.
	Chat driving.ChatController

	// Surface is the surface the chat log is rendered to. It must be the
	// same surface the controller's message log was built with.
	Surface *Surface

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// SettingsChanges signals that the settings were edited outside the
	// TUI. Optional.
	SettingsChanges <-chan struct{}
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chat driving.ChatController, surface *Surface) *Ports {
	return &Ports{
		Chat:    chat,
		Surface: surface,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatController
	}
	if p.Surface == nil {
		return ErrMissingSurface
	}
	return nil
}
