// Command querychat is a terminal client for a news query service.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/custodia-labs/querychat/internal/adapters/driven/backend/httpapi"
	"github.com/custodia-labs/querychat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/querychat/internal/adapters/driving/cli"
	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
	"github.com/custodia-labs/querychat/internal/core/services"
	"github.com/custodia-labs/querychat/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// store is the config store opened by openSettings.
var store *file.ConfigStore

func main() {
	cli.SetVersion(version)
	cli.SetDependencies(cli.Dependencies{
		OpenSettings:  openSettings,
		NewChat:       newChat,
		WatchSettings: watchSettings,
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	s, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("config: %s", s.Path())
	store = s
	return services.NewSettingsService(s), nil
}

func watchSettings(ctx context.Context) (<-chan struct{}, error) {
	if store == nil {
		return nil, errors.New("settings not opened")
	}
	return store.Watch(ctx)
}

func newChat(settings domain.AppSettings, surface driven.Surface) (driving.ChatController, error) {
	mode, err := settings.ModeConfig()
	if err != nil {
		return nil, err
	}

	backend := httpapi.NewClient(httpapi.Config{
		BaseURL:           settings.Backend.URL,
		Timeout:           settings.Backend.Timeout,
		RequestsPerSecond: settings.Backend.RatePerSecond,
		Burst:             settings.Backend.Burst,
	})

	return services.NewChatService(backend, surface, mode, services.ChatOptions{
		Welcome: settings.Chat.Welcome,
		AgentOn: settings.Chat.AgentOn,
	}), nil
}
