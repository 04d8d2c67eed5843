package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyBackendURL         = "backend.url"
	keyBackendTimeout     = "backend.timeout_seconds"
	keyBackendRate        = "backend.rate_per_second"
	keyBackendBurst       = "backend.burst"
	keyChatMode           = "chat.mode"
	keyChatPreview        = "chat.preview_length"
	keyChatChunkPreview   = "chat.chunk_preview_length"
	keyChatWelcome        = "chat.welcome"
	settingKindString     = "string"
	settingKindInt        = "int"
	settingKindFloat      = "float"
	settingKindModeString = "mode"
)

// settingKeys lists recognised keys in display order with their value kind.
var settingKeys = []struct {
	key  string
	kind string
}{
	{keyBackendURL, settingKindString},
	{keyBackendTimeout, settingKindInt},
	{keyBackendRate, settingKindFloat},
	{keyBackendBurst, settingKindInt},
	{keyChatMode, settingKindModeString},
	{keyChatPreview, settingKindInt},
	{keyChatChunkPreview, settingKindInt},
	{keyChatWelcome, settingKindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			URL:           s.getString(keyBackendURL, defaults.Backend.URL),
			Timeout:       s.getSeconds(keyBackendTimeout, defaults.Backend.Timeout),
			RatePerSecond: s.getFloat(keyBackendRate, defaults.Backend.RatePerSecond),
			Burst:         s.getInt(keyBackendBurst, defaults.Backend.Burst),
		},
		Chat: domain.ChatSettings{
			Mode:               s.getMode(defaults.Chat.Mode),
			PreviewLength:      s.getInt(keyChatPreview, 0),
			ChunkPreviewLength: s.getInt(keyChatChunkPreview, 0),
			Welcome:            s.getStringAllowEmpty(keyChatWelcome, defaults.Chat.Welcome),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyBackendURL:       settings.Backend.URL,
		keyBackendTimeout:   int(settings.Backend.Timeout / time.Second),
		keyBackendRate:      settings.Backend.RatePerSecond,
		keyBackendBurst:     settings.Backend.Burst,
		keyChatMode:         string(settings.Chat.Mode),
		keyChatPreview:      settings.Chat.PreviewLength,
		keyChatChunkPreview: settings.Chat.ChunkPreviewLength,
		keyChatWelcome:      settings.Chat.Welcome,
	}
	for _, k := range settingKeys {
		if err := s.configStore.Set(k.key, values[k.key]); err != nil {
			return fmt.Errorf("save %s: %w", k.key, err)
		}
	}
	return nil
}

// Set updates a single setting by its dotted key.
// The value is parsed according to the key and validated before saving.
func (s *SettingsService) Set(key, value string) error {
	kind := ""
	for _, k := range settingKeys {
		if k.key == key {
			kind = k.kind
			break
		}
	}

	var parsed any
	switch kind {
	case settingKindString:
		parsed = value
	case settingKindModeString:
		if _, err := domain.LookupMode(domain.ModeName(value)); err != nil {
			return err
		}
		parsed = value
	case settingKindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case settingKindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns the recognised setting keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Values returns the current value of every key formatted for display.
// The result can be fed back through Set unchanged.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		keyBackendURL:       settings.Backend.URL,
		keyBackendTimeout:   strconv.Itoa(int(settings.Backend.Timeout / time.Second)),
		keyBackendRate:      strconv.FormatFloat(settings.Backend.RatePerSecond, 'f', -1, 64),
		keyBackendBurst:     strconv.Itoa(settings.Backend.Burst),
		keyChatMode:         string(settings.Chat.Mode),
		keyChatPreview:      strconv.Itoa(settings.Chat.PreviewLength),
		keyChatChunkPreview: strconv.Itoa(settings.Chat.ChunkPreviewLength),
		keyChatWelcome:      settings.Chat.Welcome,
	}, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringAllowEmpty(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getMode(defaultVal domain.ModeName) domain.ModeName {
	val := s.configStore.GetString(keyChatMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.ModeName(val)
	if _, err := domain.LookupMode(mode); err != nil {
		return defaultVal
	}
	return mode
}
