package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

func TestSettingsShow_Defaults(t *testing.T) {
	env := newTestEnv(t, nil)

	out := requireRan(t)(env.run(t, "settings", "show"))

	assert.Contains(t, out, "URL: "+domain.DefaultBackendURL)
	assert.Contains(t, out, "Timeout: 1m0s")
	assert.Contains(t, out, "Rate: 5 req/s, burst 5")
	assert.Contains(t, out, "Mode: baseline")
	assert.Contains(t, out, "Preview length: mode default")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShow_WelcomeDisabled(t *testing.T) {
	env := newTestEnv(t, map[string]any{"chat.welcome": ""})

	out := requireRan(t)(env.run(t, "settings"))

	assert.Contains(t, out, "Welcome: (disabled)")
}

func TestSettingsShow_InvalidURLWarns(t *testing.T) {
	env := newTestEnv(t, map[string]any{"backend.url": "not a url"})

	out := requireRan(t)(env.run(t, "settings", "show"))

	assert.Contains(t, out, "Warning:")
	assert.Contains(t, out, "querychat settings wizard")
}

func TestSettingsSet(t *testing.T) {
	env := newTestEnv(t, nil)

	out := requireRan(t)(env.run(t, "settings", "set", "chat.mode", "retrieval"))

	assert.Contains(t, out, `chat.mode = "retrieval"`)
	assert.Equal(t, "retrieval", env.store.GetString("chat.mode"))
}

func TestSettingsSet_InvalidValue(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run(t, "settings", "set", "chat.mode", "turbo")

	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}

func TestSettingsSet_UnknownKey(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run(t, "settings", "set", "chat.colour", "blue")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsWizard(t *testing.T) {
	env := newTestEnv(t, nil)

	// Modes are listed sorted: agent, baseline, retrieval.
	out := requireRan(t)(env.runWithInput(t, "http://news.local:9000\n1\n", "settings", "wizard"))

	assert.Contains(t, out, "Settings saved.")
	assert.Equal(t, "http://news.local:9000", env.store.GetString("backend.url"))
	assert.Equal(t, "agent", env.store.GetString("chat.mode"))
}

func TestSettingsWizard_KeepsDefaultsOnEmptyInput(t *testing.T) {
	env := newTestEnv(t, map[string]any{"chat.mode": "retrieval"})

	requireRan(t)(env.runWithInput(t, "\n\n", "settings", "wizard"))

	assert.Equal(t, domain.DefaultBackendURL, env.store.GetString("backend.url"))
	assert.Equal(t, "retrieval", env.store.GetString("chat.mode"))
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{name: "Empty input returns default", input: "", maxVal: 3, defaultVal: 2, expected: 2},
		{name: "Valid choice within range", input: "3", maxVal: 3, defaultVal: 1, expected: 3},
		{name: "Choice below minimum returns default", input: "0", maxVal: 3, defaultVal: 1, expected: 1},
		{name: "Choice above maximum returns default", input: "4", maxVal: 3, defaultVal: 1, expected: 1},
		{name: "Non-numeric returns default", input: "abc", maxVal: 3, defaultVal: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil)
	SetDependencies(Dependencies{})

	_, err := env.run(t, "settings", "show")

	assert.ErrorContains(t, err, "settings service not configured")
}
