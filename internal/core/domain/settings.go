package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Default settings values.
const (
	DefaultBackendURL     = "http://localhost:5000"
	DefaultTimeout        = 60 * time.Second
	DefaultRatePerSecond  = 5.0
	DefaultBurst          = 5
	DefaultWelcomeMessage = "Ask me about the news. Try: tech news about phones"
)

// BackendSettings holds query backend connection configuration.
type BackendSettings struct {
	// URL is the backend base URL, e.g. http://localhost:5000.
	URL string

	// Timeout bounds a single request.
	Timeout time.Duration

	// RatePerSecond is the sustained outbound request rate.
	RatePerSecond float64

	// Burst is the maximum request burst.
	Burst int
}

// ChatSettings holds chat behaviour configuration.
type ChatSettings struct {
	// Mode selects the built-in mode configuration.
	Mode ModeName

	// PreviewLength overrides the item preview budget when positive.
	PreviewLength int

	// ChunkPreviewLength overrides the chunk preview budget when positive.
	ChunkPreviewLength int

	// Welcome is the system line shown at session start and after Clear.
	// Empty disables it.
	Welcome string

	// AgentOn is the agent mode a session starts with. It is never
	// persisted; the CLI sets it for one-shot commands.
	AgentOn bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Backend BackendSettings
	Chat    ChatSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			URL:           DefaultBackendURL,
			Timeout:       DefaultTimeout,
			RatePerSecond: DefaultRatePerSecond,
			Burst:         DefaultBurst,
		},
		Chat: ChatSettings{
			Mode:    ModeBaseline,
			Welcome: DefaultWelcomeMessage,
		},
	}
}

// ModeConfig resolves the chat mode with any preview overrides applied.
func (s AppSettings) ModeConfig() (ModeConfig, error) {
	m, err := LookupMode(s.Chat.Mode)
	if err != nil {
		return ModeConfig{}, err
	}
	return m.WithPreviewLengths(s.Chat.PreviewLength, s.Chat.ChunkPreviewLength), nil
}

// Validate checks settings for values the client cannot work with.
func (s AppSettings) Validate() error {
	u, err := url.Parse(s.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend url %q", ErrInvalidInput, s.Backend.URL)
	}
	if s.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend timeout must be positive", ErrInvalidInput)
	}
	if s.Backend.RatePerSecond <= 0 || s.Backend.Burst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidInput)
	}
	if _, err := LookupMode(s.Chat.Mode); err != nil {
		return err
	}
	return nil
}
