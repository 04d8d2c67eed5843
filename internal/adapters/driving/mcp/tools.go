package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/components/entry"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the question to ask about the news"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Entries []EntryOutput `json:"entries"`
	Count   int           `json:"count"`
}

// EntryOutput is one chat entry produced by a tool call.
type EntryOutput struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Kind string `json:"kind"`
	HTML string `json:"html"`
	Text string `json:"text"`
}

// ToggleAgentInput is the input schema for the toggle_agent tool.
type ToggleAgentInput struct {
	Enabled *bool `json:"enabled,omitempty" jsonschema:"the agent mode to switch to; omit to flip it"`
}

// ToggleAgentOutput is the output schema for the toggle_agent tool.
type ToggleAgentOutput struct {
	AgentMode string        `json:"agent_mode"`
	Entries   []EntryOutput `json:"entries"`
}

// ClearOutput is the output schema for the clear tool.
type ClearOutput struct {
	Count int `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the news query service a question and return the rendered chat entries",
	}, s.handleAsk)

	if s.ports.Chat.Mode().AgentToggle {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "toggle_agent",
			Description: "Switch the backend agent on or off",
		}, s.handleToggleAgent)
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear",
		Description: "Clear the chat session back to its welcome message",
	}, s.handleClear)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ports.Transcript.Mark()
	if err := s.ports.Chat.Submit(ctx, input.Query); err != nil {
		return nil, AskOutput{}, fmt.Errorf("ask: %w", err)
	}

	entries := toOutputs(s.ports.Transcript.Since())
	return nil, AskOutput{Entries: entries, Count: len(entries)}, nil
}

// handleToggleAgent handles the toggle_agent tool invocation.
// A rejected toggle is not a tool error; the error entry is returned.
func (s *Server) handleToggleAgent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ToggleAgentInput,
) (*mcp.CallToolResult, ToggleAgentOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ports.Transcript.Mark()

	var err error
	if input.Enabled != nil {
		err = s.ports.Chat.SetAgentMode(ctx, *input.Enabled)
	} else {
		err = s.ports.Chat.ToggleAgent(ctx)
	}
	if err != nil && !isRenderedToggleFailure(err) {
		return nil, ToggleAgentOutput{}, fmt.Errorf("toggle agent: %w", err)
	}

	return nil, ToggleAgentOutput{
		AgentMode: string(s.ports.Chat.AgentMode()),
		Entries:   toOutputs(s.ports.Transcript.Since()),
	}, nil
}

// handleClear handles the clear tool invocation.
func (s *Server) handleClear(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ClearOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ports.Chat.Clear()
	return nil, ClearOutput{Count: len(s.ports.Chat.Entries())}, nil
}

// isRenderedToggleFailure reports whether the controller already reported
// err as an entry in the log.
func isRenderedToggleFailure(err error) bool {
	switch {
	case errors.Is(err, domain.ErrToggleUnavailable), errors.Is(err, domain.ErrTogglePending):
		return false
	default:
		return true
	}
}

// toOutputs renders entries fully expanded, as markup and plain text.
func toOutputs(entries []domain.ChatEntry) []EntryOutput {
	plain := entry.NewPlainRenderer()
	out := make([]EntryOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryOutput{
			ID:   e.ID,
			Role: string(e.Role),
			Kind: string(e.Kind),
			HTML: e.HTML(true),
			Text: plain.Entry(e, true, 0),
		})
	}
	return out
}
