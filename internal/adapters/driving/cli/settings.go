package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend connection and chat behaviour.

Use subcommands to change single keys or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key.

Available keys:
  backend.url                  base URL of the query backend
  backend.timeout_seconds      request timeout
  backend.rate_per_second      sustained outbound request rate
  backend.burst                outbound request burst
  chat.mode                    baseline, retrieval or agent
  chat.preview_length          item preview length (0 = mode default)
  chat.chunk_preview_length    chunk preview length (0 = mode default)
  chat.welcome                 welcome line (empty disables it)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the backend and chat mode.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  URL: %s\n", settings.Backend.URL)
	cmd.Printf("  Timeout: %s\n", settings.Backend.Timeout)
	cmd.Printf("  Rate: %s req/s, burst %d\n",
		strconv.FormatFloat(settings.Backend.RatePerSecond, 'f', -1, 64), settings.Backend.Burst)
	cmd.Println()

	cmd.Println("[Chat]")
	cmd.Printf("  Mode: %s\n", settings.Chat.Mode)
	cmd.Printf("  Preview length: %s\n", lengthOrDefault(settings.Chat.PreviewLength))
	cmd.Printf("  Chunk preview length: %s\n", lengthOrDefault(settings.Chat.ChunkPreviewLength))
	if settings.Chat.Welcome == "" {
		cmd.Printf("  Welcome: (disabled)\n")
	} else {
		cmd.Printf("  Welcome: %s\n", settings.Chat.Welcome)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'querychat settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func lengthOrDefault(n int) string {
	if n <= 0 {
		return "mode default"
	}
	return strconv.Itoa(n)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("%s = %q\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "querychat setup")
	fmt.Fprintln(out, "===============")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Backend URL [%s]: ", settings.Backend.URL)
	if url := readLine(reader); url != "" {
		settings.Backend.URL = url
	}

	settings.Chat.Mode = chooseMode(out, reader, settings.Chat.Mode)

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Settings saved.")
	return nil
}

// chooseMode prompts for a chat mode, keeping current on empty or invalid input.
func chooseMode(out io.Writer, reader *bufio.Reader, current domain.ModeName) domain.ModeName {
	names := domain.ModeNames()
	defaultChoice := 1
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Chat mode:")
	for i, name := range names {
		fmt.Fprintf(out, "  %d. %s\n", i+1, name)
		if domain.ModeName(name) == current {
			defaultChoice = i + 1
		}
	}
	fmt.Fprintf(out, "Select [%d]: ", defaultChoice)

	choice := parseChoice(readLine(reader), len(names), defaultChoice)
	return domain.ModeName(names[choice-1])
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
