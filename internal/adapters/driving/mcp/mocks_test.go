package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/adapters/driven/surface/memory"
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/services"
)

// mockBackend is a mock implementation of driven.QueryBackend.
type mockBackend struct {
	body      string
	err       error
	toggleErr error
	toggles   []bool
}

func (m *mockBackend) Query(_ context.Context, _ string, _ domain.QueryRequest) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte(m.body), nil
}

func (m *mockBackend) ToggleAgent(_ context.Context, enable bool) error {
	m.toggles = append(m.toggles, enable)
	return m.toggleErr
}

func newTestServer(t *testing.T, name domain.ModeName, backend *mockBackend) (*Server, *memory.Surface) {
	t.Helper()

	mode, err := domain.LookupMode(name)
	require.NoError(t, err)

	surface := memory.NewSurface()
	chat := services.NewChatService(backend, surface, mode, services.ChatOptions{Welcome: "Welcome"})

	server, err := NewServer(&Ports{Chat: chat, Transcript: surface})
	require.NoError(t, err)
	return server, surface
}
