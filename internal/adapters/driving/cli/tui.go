package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui"
	"github.com/custodia-labs/querychat/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive terminal chat.

Controls:
  Enter    - Send the question / expand the selected item
  ↑, ↓     - Select result items
  Tab      - Expand or collapse the selected item
  Esc      - Deselect
  Ctrl+T   - Switch agent mode (agent mode only)
  Ctrl+L   - Clear the chat
  PgUp/Dn  - Scroll
  F1       - Toggle help
  F2       - Edit settings (Esc to return)
  Ctrl+C   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	surface := tui.NewSurface()
	chat, _, err := newChat(surface)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	ports := tui.NewPorts(chat, surface)
	ports.Settings = settingsService
	if settingsService != nil && deps.WatchSettings != nil {
		changes, err := deps.WatchSettings(ctx)
		if err != nil {
			logger.Warn("settings will not refresh: %v", err)
		} else {
			ports.SettingsChanges = changes
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
