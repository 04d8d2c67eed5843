// Package memory provides a headless Surface that records what would be
// displayed. The ask command and the MCP server render from it after a
// query completes.
package memory

import (
	"strings"
	"sync"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
)

// Ensure Surface implements the interface.
var _ driven.Surface = (*Surface)(nil)

// Surface keeps displayed entries and body visibility in memory.
type Surface struct {
	mu      sync.RWMutex
	entries []domain.ChatEntry
	visible map[string]bool
	scrolls int
	mark    int
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{visible: make(map[string]bool)}
}

// Append displays a new entry after all existing ones.
func (s *Surface) Append(entry domain.ChatEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Remove deletes the entry with the given ID.
func (s *Surface) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			if i < s.mark {
				s.mark--
			}
			return
		}
	}
}

// Reset replaces everything displayed with entries.
func (s *Surface) Reset(entries []domain.ChatEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]domain.ChatEntry(nil), entries...)
	s.visible = make(map[string]bool)
	s.mark = 0
}

// SetBodyVisible shows or hides the body of a collapsible entry.
func (s *Surface) SetBodyVisible(collapsedID string, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible[collapsedID] = visible
}

// ScrollToEnd counts scroll requests.
func (s *Surface) ScrollToEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrolls++
}

// Entries returns a copy of the displayed entries.
func (s *Surface) Entries() []domain.ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatEntry(nil), s.entries...)
}

// Visible reports whether a collapsible body is shown.
func (s *Surface) Visible(collapsedID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible[collapsedID]
}

// ScrollCount returns how many times ScrollToEnd was called.
func (s *Surface) ScrollCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scrolls
}

// Mark remembers the current end of the log. Since returns entries
// displayed after the most recent Mark.
func (s *Surface) Mark() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mark = len(s.entries)
}

// Since returns the entries displayed after the most recent Mark.
func (s *Surface) Since() []domain.ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mark > len(s.entries) {
		return nil
	}
	return append([]domain.ChatEntry(nil), s.entries[s.mark:]...)
}

// HTML returns the markup of every displayed entry, one per line.
func (s *Surface) HTML() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]string, len(s.entries))
	for i, e := range s.entries {
		lines[i] = e.HTML(s.visible[e.CollapsedID])
	}
	return strings.Join(lines, "\n")
}
