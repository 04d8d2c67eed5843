package domain

import "strings"

// Role identifies who authored a chat entry.
type Role string

// Available roles.
const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// EntryKind classifies entries for display purposes.
type EntryKind string

// Available entry kinds.
const (
	// KindMessage is plain text typed by the user.
	KindMessage EntryKind = "message"

	// KindLoading is the transient indicator shown while a query is outstanding.
	KindLoading EntryKind = "loading"

	// KindNotice is an informational system line.
	KindNotice EntryKind = "notice"

	// KindError reports a failure.
	KindError EntryKind = "error"

	// KindSummary frames a synthesised retrieval answer.
	KindSummary EntryKind = "summary"

	// KindItem is one collapsible result item or chunk.
	KindItem EntryKind = "item"

	// KindAgent carries an agent response with its method badge.
	KindAgent EntryKind = "agent"
)

// ChatEntry is one rendered element of the chat log.
// Entries are immutable once appended to the log.
type ChatEntry struct {
	// ID uniquely identifies the entry within a session.
	ID string `json:"id"`

	// Role is the author of the entry.
	Role Role `json:"role"`

	// Kind classifies the entry.
	Kind EntryKind `json:"kind"`

	// Content is the HTML shown at all times (the head of a collapsible entry).
	Content string `json:"content"`

	// Body is the HTML revealed when a collapsible entry is expanded.
	Body string `json:"body,omitempty"`

	// CollapsedID is set on collapsible entries and names the body element.
	CollapsedID string `json:"collapsed_id,omitempty"`
}

// Collapsible reports whether the entry has an independently toggled body.
func (e ChatEntry) Collapsible() bool {
	return e.CollapsedID != ""
}

// HTML returns the markup for the entry, with the body hidden unless expanded.
func (e ChatEntry) HTML(expanded bool) string {
	var b strings.Builder

	class := "system-message"
	if e.Role == RoleUser {
		class = "user-message"
	}
	if e.Kind == KindLoading {
		class = "loading"
	}

	b.WriteString(`<div class="` + class + `" data-kind="` + string(e.Kind) + `">`)
	if !e.Collapsible() {
		b.WriteString(e.Content)
		b.WriteString(`</div>`)
		return b.String()
	}

	b.WriteString(`<div class="item-head" data-target="` + e.CollapsedID + `">`)
	b.WriteString(e.Content)
	b.WriteString(`</div><div class="item-body" id="` + e.CollapsedID + `"`)
	if !expanded {
		b.WriteString(` hidden`)
	}
	b.WriteString(`>`)
	b.WriteString(e.Body)
	b.WriteString(`</div></div>`)
	return b.String()
}
