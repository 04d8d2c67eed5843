package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/querychat/internal/adapters/driven/surface/memory"
	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/components/entry"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 80

var (
	askJSON     bool
	askHTML     bool
	askCollapse bool
	askAgent    bool
)

// outputFormat selects how ask prints entries.
type outputFormat int

const (
	formatPlain outputFormat = iota
	formatStyled
	formatHTML
	formatJSON
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a single question",
	Long: `Sends one question to the backend and prints the answer.

Output is styled on a terminal and plain text when piped. Use --html for
the entry markup or --json for the entries themselves.

Examples:
  querychat ask "tech news about phones"
  querychat ask --mode retrieval "who won the election"
  querychat ask --mode agent --agent "compare sport and business coverage"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output entries as JSON")
	askCmd.Flags().BoolVar(&askHTML, "html", false, "output entries as HTML")
	askCmd.Flags().BoolVar(&askCollapse, "collapse", false, "hide item bodies")
	askCmd.Flags().BoolVar(&askAgent, "agent", false, "switch agent mode on before asking (agent mode only)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	surface := memory.NewSurface()
	chat, _, err := newChat(surface)
	if err != nil {
		return err
	}
	surface.Mark()

	ctx := cmd.Context()
	if askAgent {
		// Other toggle failures are reported in the log itself.
		err := chat.SetAgentMode(ctx, true)
		if errors.Is(err, domain.ErrToggleUnavailable) {
			return fmt.Errorf("--agent requires --mode agent: %w", err)
		}
	}

	if err := chat.Submit(ctx, query); err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	entries := surface.Since()
	if !askCollapse {
		for _, e := range entries {
			if e.Collapsible() {
				chat.ToggleEntry(e.CollapsedID)
			}
		}
	}

	out := cmd.OutOrStdout()
	switch selectFormat(out) {
	case formatJSON:
		return outputAskJSON(out, entries, surface.Visible)
	case formatHTML:
		return outputAskHTML(out, entries, surface.Visible)
	case formatStyled:
		return outputAskText(out, entries, surface.Visible, entry.NewRenderer(nil), terminalWidth(out))
	default:
		return outputAskText(out, entries, surface.Visible, entry.NewPlainRenderer(), defaultWidth)
	}
}

func selectFormat(out io.Writer) outputFormat {
	switch {
	case askJSON:
		return formatJSON
	case askHTML:
		return formatHTML
	case isTerminal(out):
		return formatStyled
	default:
		return formatPlain
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// jsonEntry is the JSON shape of a printed entry.
type jsonEntry struct {
	domain.ChatEntry
	Expanded bool `json:"expanded"`
}

func outputAskJSON(w io.Writer, entries []domain.ChatEntry, visible func(string) bool) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{ChatEntry: e, Expanded: visible(e.CollapsedID)})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputAskHTML(w io.Writer, entries []domain.ChatEntry, visible func(string) bool) error {
	for _, e := range entries {
		fmt.Fprintln(w, e.HTML(visible(e.CollapsedID)))
	}
	return nil
}

func outputAskText(
	w io.Writer,
	entries []domain.ChatEntry,
	visible func(string) bool,
	renderer *entry.Renderer,
	width int,
) error {
	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, renderer.Entry(e, visible(e.CollapsedID), width))
	}
	return nil
}
