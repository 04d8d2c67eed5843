package mcp

import (
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
)

// Transcript is the surface the controller displays on, read back by tools.
type Transcript interface {
	// Mark remembers the current end of the log.
	Mark()

	// Since returns the entries displayed after the last Mark.
	Since() []domain.ChatEntry

	// HTML returns the whole displayed log as markup.
	HTML() string
}

// Ports aggregates the dependencies required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat owns the query lifecycle for the server session.
	Chat driving.ChatController

	// Transcript must be the surface Chat was built with.
	Transcript Transcript
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatController
	}
	if p.Transcript == nil {
		return ErrMissingTranscript
	}
	return nil
}
