package services

import (
	"sync"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
)

// MessageLog is the append-only ordered list of chat entries.
// It mirrors every change onto its surface. The surface is called with
// the log locked, so surfaces must not call back into the log.
type MessageLog struct {
	mu       sync.RWMutex
	surface  driven.Surface
	initial  []domain.ChatEntry
	entries  []domain.ChatEntry
	expanded map[string]bool
}

// NewMessageLog creates a log seeded with initial entries.
// The initial entries are the snapshot that Reset restores.
// A nil surface keeps the log headless.
func NewMessageLog(surface driven.Surface, initial ...domain.ChatEntry) *MessageLog {
	l := &MessageLog{
		surface:  surface,
		initial:  append([]domain.ChatEntry(nil), initial...),
		expanded: make(map[string]bool),
	}
	l.entries = append([]domain.ChatEntry(nil), l.initial...)
	if surface != nil {
		surface.Reset(append([]domain.ChatEntry(nil), l.entries...))
	}
	return l
}

// Append adds entries in order and scrolls to the end once.
func (l *MessageLog) Append(entries ...domain.ChatEntry) {
	if len(entries) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entries...)
	if l.surface == nil {
		return
	}
	for _, e := range entries {
		l.surface.Append(e)
	}
	l.surface.ScrollToEnd()
}

// Remove deletes an entry by ID. It reports whether the entry was present.
func (l *MessageLog) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		l.entries = append(l.entries[:i], l.entries[i+1:]...)
		if l.surface != nil {
			l.surface.Remove(id)
		}
		return true
	}
	return false
}

// Reset restores the initial snapshot and collapses every body.
func (l *MessageLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]domain.ChatEntry(nil), l.initial...)
	l.expanded = make(map[string]bool)
	if l.surface != nil {
		l.surface.Reset(append([]domain.ChatEntry(nil), l.entries...))
	}
}

// ToggleBody flips the visibility of a collapsible body without scrolling.
// Unknown IDs stay hidden and return false.
func (l *MessageLog) ToggleBody(collapsedID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasCollapsible(collapsedID) {
		return false
	}
	visible := !l.expanded[collapsedID]
	l.expanded[collapsedID] = visible
	if l.surface != nil {
		l.surface.SetBodyVisible(collapsedID, visible)
	}
	return visible
}

// Expanded reports whether a collapsible body is visible.
func (l *MessageLog) Expanded(collapsedID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.expanded[collapsedID]
}

// Entries returns a copy of the current entries.
func (l *MessageLog) Entries() []domain.ChatEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.ChatEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *MessageLog) hasCollapsible(collapsedID string) bool {
	if collapsedID == "" {
		return false
	}
	for i := range l.entries {
		if l.entries[i].CollapsedID == collapsedID {
			return true
		}
	}
	return false
}
