package driven

import "github.com/custodia-labs/querychat/internal/core/domain"

// Surface is where the chat log is displayed.
// The message log is the only caller; it owns ordering and visibility state.
type Surface interface {
	// Append displays a new entry after all existing ones.
	Append(entry domain.ChatEntry)

	// Remove deletes the entry with the given ID. Unknown IDs are ignored.
	Remove(id string)

	// Reset replaces everything displayed with entries.
	Reset(entries []domain.ChatEntry)

	// SetBodyVisible shows or hides the body of a collapsible entry.
	SetBodyVisible(collapsedID string, visible bool)

	// ScrollToEnd brings the newest entry into view.
	ScrollToEnd()
}
