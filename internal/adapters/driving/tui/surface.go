package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/querychat/internal/adapters/driven/surface/memory"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
)

// Ensure Surface implements the interface.
var _ driven.Surface = (*Surface)(nil)

// Surface is the chat log surface of the TUI. It records entries like the
// in-memory surface and signals the view that it should redraw.
//
// Notifications never block: the message log calls the surface with its
// lock held, so a pending redraw simply absorbs further changes.
type Surface struct {
	*memory.Surface

	mu      sync.Mutex
	follow  bool
	changed chan struct{}
}

// NewSurface creates a TUI surface.
func NewSurface() *Surface {
	return &Surface{
		Surface: memory.NewSurface(),
		changed: make(chan struct{}, 1),
	}
}

// Append displays a new entry after all existing ones.
func (s *Surface) Append(entry domain.ChatEntry) {
	s.Surface.Append(entry)
	s.notify()
}

// Remove deletes the entry with the given ID.
func (s *Surface) Remove(id string) {
	s.Surface.Remove(id)
	s.notify()
}

// Reset replaces everything displayed with entries.
func (s *Surface) Reset(entries []domain.ChatEntry) {
	s.Surface.Reset(entries)
	s.notify()
}

// SetBodyVisible shows or hides the body of a collapsible entry.
func (s *Surface) SetBodyVisible(collapsedID string, visible bool) {
	s.Surface.SetBodyVisible(collapsedID, visible)
	s.notify()
}

// ScrollToEnd asks the view to follow the newest entry on its next redraw.
func (s *Surface) ScrollToEnd() {
	s.Surface.ScrollToEnd()
	s.mu.Lock()
	s.follow = true
	s.mu.Unlock()
	s.notify()
}

func (s *Surface) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

// Listen returns a command that waits for the next change and reports it
// as messages.LogChanged. The view re-issues it after every change.
func (s *Surface) Listen() tea.Cmd {
	return func() tea.Msg {
		<-s.changed
		s.mu.Lock()
		follow := s.follow
		s.follow = false
		s.mu.Unlock()
		return messages.LogChanged{Follow: follow}
	}
}
