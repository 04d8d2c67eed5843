package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/querychat/internal/adapters/driven/surface/memory"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

var agentCmd = &cobra.Command{
	Use:       "agent on|off",
	Short:     "Switch agent mode on the backend",
	Long:      `Asks the backend to enable or disable its agent. Always uses the agent mode.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)
}

func parseOnOff(arg string) (bool, error) {
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: expected on or off, got %q", domain.ErrInvalidInput, arg)
	}
}

func runAgent(cmd *cobra.Command, args []string) error {
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}

	// The backend state is unknown to a fresh session, so start from the
	// opposite mode to make sure the request is sent.
	surface := memory.NewSurface()
	chat, _, err := newChat(surface, func(s *domain.AppSettings) {
		s.Chat.Mode = domain.ModeAgent
		s.Chat.AgentOn = !on
	})
	if err != nil {
		return err
	}

	if err := chat.SetAgentMode(cmd.Context(), on); err != nil {
		if errors.Is(err, domain.ErrToggleRejected) {
			return fmt.Errorf("backend rejected the toggle: %w", err)
		}
		return fmt.Errorf("failed to switch agent mode: %w", err)
	}

	cmd.Printf("Agent mode: %s\n", chat.AgentMode())
	return nil
}
