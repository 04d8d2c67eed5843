package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatEntry_Collapsible(t *testing.T) {
	assert.False(t, ChatEntry{Kind: KindNotice}.Collapsible())
	assert.True(t, ChatEntry{Kind: KindItem, CollapsedID: "c1"}.Collapsible())
}

func TestChatEntry_HTML(t *testing.T) {
	tests := []struct {
		name     string
		entry    ChatEntry
		expanded bool
		want     string
	}{
		{
			name:  "user message",
			entry: ChatEntry{Role: RoleUser, Kind: KindMessage, Content: "<p>hi</p>"},
			want:  `<div class="user-message" data-kind="message"><p>hi</p></div>`,
		},
		{
			name:  "system notice",
			entry: ChatEntry{Role: RoleSystem, Kind: KindNotice, Content: "<p>ok</p>"},
			want:  `<div class="system-message" data-kind="notice"><p>ok</p></div>`,
		},
		{
			name:  "loading indicator",
			entry: ChatEntry{Role: RoleSystem, Kind: KindLoading, Content: "Thinking..."},
			want:  `<div class="loading" data-kind="loading">Thinking...</div>`,
		},
		{
			name:  "collapsed item",
			entry: ChatEntry{Role: RoleSystem, Kind: KindItem, Content: "head", Body: "body", CollapsedID: "c1"},
			want: `<div class="system-message" data-kind="item"><div class="item-head" data-target="c1">head</div>` +
				`<div class="item-body" id="c1" hidden>body</div></div>`,
		},
		{
			name:     "expanded item",
			entry:    ChatEntry{Role: RoleSystem, Kind: KindItem, Content: "head", Body: "body", CollapsedID: "c1"},
			expanded: true,
			want: `<div class="system-message" data-kind="item"><div class="item-head" data-target="c1">head</div>` +
				`<div class="item-body" id="c1">body</div></div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.HTML(tt.expanded))
		})
	}
}
