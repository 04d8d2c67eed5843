package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
	"github.com/custodia-labs/querychat/internal/core/services"
)

// mockBackend implements driven.QueryBackend for CLI tests.
type mockBackend struct {
	mu        sync.Mutex
	body      string
	toggleErr error
	endpoints []string
	requests  []domain.QueryRequest
	toggles   []bool
}

func (m *mockBackend) Query(_ context.Context, endpoint string, req domain.QueryRequest) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoints = append(m.endpoints, endpoint)
	m.requests = append(m.requests, req)
	body := m.body
	if body == "" {
		body = `{"results":[]}`
	}
	return []byte(body), nil
}

func (m *mockBackend) ToggleAgent(_ context.Context, enable bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggles = append(m.toggles, enable)
	return m.toggleErr
}

// testEnv wires the commands to an in-memory config store and a mock backend.
type testEnv struct {
	store    *memory.ConfigStore
	backend  *mockBackend
	settings domain.AppSettings
}

func newTestEnv(t *testing.T, seed map[string]any) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   memory.NewConfigStore(seed),
		backend: &mockBackend{},
	}

	SetDependencies(Dependencies{
		OpenSettings: func(string) (driving.SettingsService, error) {
			return services.NewSettingsService(env.store), nil
		},
		NewChat: func(settings domain.AppSettings, surface driven.Surface) (driving.ChatController, error) {
			env.settings = settings
			mode, err := settings.ModeConfig()
			if err != nil {
				return nil, err
			}
			return services.NewChatService(env.backend, surface, mode, services.ChatOptions{
				Welcome: settings.Chat.Welcome,
				AgentOn: settings.Chat.AgentOn,
			}), nil
		},
	})

	t.Cleanup(func() {
		SetDependencies(Dependencies{})
		settingsService = nil
		verbose, configDir, backendURL, modeName = false, "", "", ""
		askJSON, askHTML, askCollapse, askAgent = false, false, false, false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	return env
}

// run executes the root command with args and returns its output.
func (env *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return env.runWithInput(t, "", args...)
}

func (env *testEnv) runWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// requireRan fails the test when a run returned an error.
func requireRan(t *testing.T) func(string, error) string {
	t.Helper()
	return func(out string, err error) string {
		require.NoError(t, err, out)
		return out
	}
}
