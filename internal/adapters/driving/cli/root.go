// Package cli provides the querychat command-line interface.
// It is a driving adapter built on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
	"github.com/custodia-labs/querychat/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose    bool
	configDir  string
	backendURL string
	modeName   string
)

// SettingsOpener opens the settings service for a config directory.
// An empty directory selects the default location.
type SettingsOpener func(configDir string) (driving.SettingsService, error)

// ChatFactory builds a chat controller from resolved settings that
// displays on surface.
type ChatFactory func(settings domain.AppSettings, surface driven.Surface) (driving.ChatController, error)

// SettingsWatcher reports external edits to the opened settings until
// ctx is done.
type SettingsWatcher func(ctx context.Context) (<-chan struct{}, error)

// Dependencies holds the constructors the commands are wired with.
// WatchSettings is optional.
type Dependencies struct {
	OpenSettings  SettingsOpener
	NewChat       ChatFactory
	WatchSettings SettingsWatcher
}

var deps Dependencies

// settingsService is opened before any command runs.
var settingsService driving.SettingsService

var rootCmd = &cobra.Command{
	Use:   "querychat",
	Short: "Ask a news query service from the terminal",
	Long: `querychat sends questions to a news query backend and renders the
answers as a chat log.

Three modes are available:
  baseline   - keyword search with category detection
  retrieval  - answers synthesised from retrieved chunks
  agent      - an agent that can be switched on and off`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print lifecycle logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.querychat)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL")
	rootCmd.PersistentFlags().StringVarP(&modeName, "mode", "m", "", "chat mode: baseline, retrieval or agent")
}

// SetDependencies sets the constructors used by the commands.
func SetDependencies(d Dependencies) {
	deps = d
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if deps.OpenSettings == nil {
		return nil
	}
	svc, err := deps.OpenSettings(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settingsService = svc
	return nil
}

// resolveSettings loads settings and applies flag overrides, then any
// command-specific overrides.
func resolveSettings(overrides ...func(*domain.AppSettings)) (domain.AppSettings, error) {
	if settingsService == nil {
		return domain.AppSettings{}, errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	if backendURL != "" {
		settings.Backend.URL = backendURL
	}
	if modeName != "" {
		settings.Chat.Mode = domain.ModeName(modeName)
	}
	for _, override := range overrides {
		override(settings)
	}

	if err := settings.Validate(); err != nil {
		return domain.AppSettings{}, err
	}
	logger.Debug("settings: backend=%s mode=%s", settings.Backend.URL, settings.Chat.Mode)
	return *settings, nil
}

// newChat builds a chat controller that displays on surface.
func newChat(
	surface driven.Surface,
	overrides ...func(*domain.AppSettings),
) (driving.ChatController, domain.AppSettings, error) {
	settings, err := resolveSettings(overrides...)
	if err != nil {
		return nil, domain.AppSettings{}, err
	}
	if deps.NewChat == nil {
		return nil, domain.AppSettings{}, errors.New("chat controller not configured")
	}

	chat, err := deps.NewChat(settings, surface)
	if err != nil {
		return nil, domain.AppSettings{}, fmt.Errorf("creating chat: %w", err)
	}
	return chat, settings, nil
}
