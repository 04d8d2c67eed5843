package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/core/ports/driven"
	"github.com/custodia-labs/querychat/internal/core/ports/driving"
	"github.com/custodia-labs/querychat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatController = (*ChatService)(nil)

// Toggle notices.
const (
	agentEnabledMessage  = "Agent mode enabled."
	agentDisabledMessage = "Agent mode disabled."
	toggleFailedMessage  = "Failed to switch agent mode"
)

// ChatOptions configures a ChatService.
type ChatOptions struct {
	// Welcome is the initial system line. Empty means no initial entries.
	Welcome string

	// NewID generates entry IDs. Defaults to NewUUID.
	NewID IDGenerator

	// AgentOn is the committed agent mode at start. Sessions normally
	// start with agent mode off.
	AgentOn bool
}

// ChatService is the query controller. It owns the request lifecycle,
// the agent toggle and the message log.
//
// State is guarded by a mutex that is never held across a backend call,
// so the controller can be driven from UI command goroutines.
type ChatService struct {
	backend  driven.QueryBackend
	mode     domain.ModeConfig
	renderer *Renderer
	log      *MessageLog

	mu           sync.Mutex
	state        domain.ChatState
	agentOn      bool
	agentPending bool
}

// NewChatService creates a controller for mode that displays on surface.
// The initial snapshot restored by Clear is captured here.
func NewChatService(
	backend driven.QueryBackend,
	surface driven.Surface,
	mode domain.ModeConfig,
	opts ChatOptions,
) *ChatService {
	renderer := NewRenderer(mode, opts.NewID)

	var initial []domain.ChatEntry
	if opts.Welcome != "" {
		initial = append(initial, renderer.NoticeEntry(opts.Welcome))
	}

	return &ChatService{
		backend:  backend,
		mode:     mode,
		renderer: renderer,
		log:      NewMessageLog(surface, initial...),
		state:    domain.StateIdle,
		agentOn:  opts.AgentOn && mode.AgentToggle,
	}
}

// Submit sends text to the backend and appends the rendered outcome.
func (s *ChatService) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.state != domain.StateIdle {
		s.mu.Unlock()
		logger.Debug("Submit ignored: query already in flight")
		return domain.ErrQueryInFlight
	}
	req, err := domain.NewQueryRequest(text, s.mode.UseRetrieval, s.agentOn)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = domain.StateAwaitingResponse
	loading := s.renderer.LoadingEntry()
	s.log.Append(s.renderer.UserEntry(req.Text), loading)
	s.mu.Unlock()

	logger.Section("Query")
	logger.Debug("Mode: %s, endpoint: %s, retrieval=%t, agent=%t",
		s.mode.Name, s.mode.Endpoint, req.UseRetrieval, req.UseAgent)

	var variant domain.ResultVariant
	body, err := s.backend.Query(ctx, s.mode.Endpoint, req)
	if err != nil {
		logger.Warn("Query failed: %v", err)
		variant = domain.ErrorResult{Message: NetworkErrorMessage}
	} else {
		variant = Interpret(body, s.mode, req)
	}
	entries := s.renderer.Render(variant, req.Text)
	logger.Info("Query completed: %s, %d entries", variant.Kind(), len(entries))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Remove(loading.ID)
	s.log.Append(entries...)
	s.state = domain.StateIdle
	return nil
}

// ToggleAgent flips agent mode optimistically and reverts on failure.
func (s *ChatService) ToggleAgent(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkToggle(); err != nil {
		s.mu.Unlock()
		return err
	}
	target := !s.agentOn
	s.agentPending = true
	s.mu.Unlock()

	return s.requestAgentMode(ctx, target)
}

// SetAgentMode requests a specific agent mode. It is a no-op when the
// committed mode already matches.
func (s *ChatService) SetAgentMode(ctx context.Context, on bool) error {
	s.mu.Lock()
	if err := s.checkToggle(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.agentOn == on {
		s.mu.Unlock()
		return nil
	}
	s.agentPending = true
	s.mu.Unlock()

	return s.requestAgentMode(ctx, on)
}

// checkToggle validates that a toggle may start (caller holds lock).
func (s *ChatService) checkToggle() error {
	if !s.mode.AgentToggle {
		return domain.ErrToggleUnavailable
	}
	if s.agentPending {
		logger.Debug("Toggle ignored: another toggle is pending")
		return domain.ErrTogglePending
	}
	return nil
}

func (s *ChatService) requestAgentMode(ctx context.Context, target bool) error {
	logger.Debug("Requesting agent mode %t", target)
	err := s.backend.ToggleAgent(ctx, target)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentPending = false

	if err != nil {
		logger.Warn("Agent toggle failed, keeping agent=%t: %v", s.agentOn, err)
		s.log.Append(s.renderer.ErrorEntry(toggleFailedMessage + ": " + toggleReason(err)))
		return fmt.Errorf("toggle agent: %w", err)
	}

	s.agentOn = target
	if target {
		s.log.Append(s.renderer.NoticeEntry(agentEnabledMessage))
	} else {
		s.log.Append(s.renderer.NoticeEntry(agentDisabledMessage))
	}
	logger.Info("Agent mode committed: %t", target)
	return nil
}

func toggleReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrToggleRejected):
		return "rejected by server"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request cancelled"
	default:
		return "network error"
	}
}

// Clear restores the log to the initial snapshot. Agent mode is kept.
func (s *ChatService) Clear() {
	s.log.Reset()
}

// ToggleEntry flips the body visibility of a collapsible entry.
func (s *ChatService) ToggleEntry(collapsedID string) bool {
	return s.log.ToggleBody(collapsedID)
}

// Entries returns a copy of the log.
func (s *ChatService) Entries() []domain.ChatEntry {
	return s.log.Entries()
}

// Expanded reports whether a collapsible entry's body is visible.
func (s *ChatService) Expanded(collapsedID string) bool {
	return s.log.Expanded(collapsedID)
}

// AgentMode returns the agent toggle state.
func (s *ChatService) AgentMode() domain.AgentMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.agentPending:
		return domain.AgentPending
	case s.agentOn:
		return domain.AgentOn
	default:
		return domain.AgentOff
	}
}

// State returns the query lifecycle state.
func (s *ChatService) State() domain.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the mode configuration.
func (s *ChatService) Mode() domain.ModeConfig {
	return s.mode
}
