package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns entries produced by the query", func(t *testing.T) {
		backend := &mockBackend{
			body: `{"parsed":{"keyword":"phone","category":"tech"},"results":[{"category":"tech","text":"New phone launched"}]}`,
		}
		server, _ := newTestServer(t, domain.ModeBaseline, backend)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "tech news about phones"})

		require.NoError(t, err)
		require.Equal(t, 3, output.Count)
		assert.Equal(t, "message", output.Entries[0].Kind)
		assert.Equal(t, "user", output.Entries[0].Role)
		assert.Contains(t, output.Entries[1].Text, "AI understood: category=tech, keyword=phone")
		assert.Equal(t, "item", output.Entries[2].Kind)
		assert.Contains(t, output.Entries[2].HTML, "<mark>phone</mark>")
		assert.Contains(t, output.Entries[2].Text, "New *phone* launched")
	})

	t.Run("does not repeat earlier entries", func(t *testing.T) {
		server, _ := newTestServer(t, domain.ModeBaseline, &mockBackend{body: `{"results":[]}`})

		_, first, err := server.handleAsk(ctx, nil, AskInput{Query: "one"})
		require.NoError(t, err)
		_, second, err := server.handleAsk(ctx, nil, AskInput{Query: "two"})
		require.NoError(t, err)

		assert.Equal(t, 2, first.Count)
		assert.Equal(t, 2, second.Count)
		assert.Contains(t, second.Entries[0].Text, "two")
	})

	t.Run("transport failure is rendered", func(t *testing.T) {
		server, _ := newTestServer(t, domain.ModeBaseline, &mockBackend{err: domain.ErrTransport})

		_, output, err := server.handleAsk(ctx, nil, AskInput{Query: "q"})

		require.NoError(t, err)
		require.Equal(t, 2, output.Count)
		assert.Equal(t, "error", output.Entries[1].Kind)
		assert.Contains(t, output.Entries[1].Text, "Network error, please try again later.")
	})

	t.Run("empty query is an error", func(t *testing.T) {
		server, _ := newTestServer(t, domain.ModeBaseline, &mockBackend{})

		_, _, err := server.handleAsk(ctx, nil, AskInput{Query: "  "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})
}

func TestServer_handleToggleAgent(t *testing.T) {
	ctx := context.Background()

	t.Run("flips agent mode", func(t *testing.T) {
		backend := &mockBackend{}
		server, _ := newTestServer(t, domain.ModeAgent, backend)

		_, output, err := server.handleToggleAgent(ctx, nil, ToggleAgentInput{})

		require.NoError(t, err)
		assert.Equal(t, "on", output.AgentMode)
		assert.Equal(t, []bool{true}, backend.toggles)
		require.Len(t, output.Entries, 1)
		assert.Equal(t, "notice", output.Entries[0].Kind)
	})

	t.Run("explicit mode is idempotent", func(t *testing.T) {
		backend := &mockBackend{}
		server, _ := newTestServer(t, domain.ModeAgent, backend)
		off := false

		_, output, err := server.handleToggleAgent(ctx, nil, ToggleAgentInput{Enabled: &off})

		require.NoError(t, err)
		assert.Equal(t, "off", output.AgentMode)
		assert.Empty(t, backend.toggles)
		assert.Empty(t, output.Entries)
	})

	t.Run("rejected toggle returns the error entry", func(t *testing.T) {
		backend := &mockBackend{toggleErr: errors.New("boom")}
		server, _ := newTestServer(t, domain.ModeAgent, backend)

		_, output, err := server.handleToggleAgent(ctx, nil, ToggleAgentInput{})

		require.NoError(t, err)
		assert.Equal(t, "off", output.AgentMode)
		require.Len(t, output.Entries, 1)
		assert.Equal(t, "error", output.Entries[0].Kind)
	})

	t.Run("unavailable outside agent mode", func(t *testing.T) {
		server, _ := newTestServer(t, domain.ModeBaseline, &mockBackend{})

		_, _, err := server.handleToggleAgent(ctx, nil, ToggleAgentInput{})

		assert.ErrorIs(t, err, domain.ErrToggleUnavailable)
	})
}

func TestServer_handleClear(t *testing.T) {
	ctx := context.Background()
	server, surface := newTestServer(t, domain.ModeBaseline, &mockBackend{body: `{"results":[]}`})

	_, _, err := server.handleAsk(ctx, nil, AskInput{Query: "q"})
	require.NoError(t, err)

	_, output, err := server.handleClear(ctx, nil, struct{}{})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Len(t, surface.Entries(), 1)
}
