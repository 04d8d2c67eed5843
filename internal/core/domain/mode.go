package domain

import (
	"fmt"
	"sort"
)

// ModeName identifies a chat mode.
type ModeName string

// Available modes.
const (
	// ModeBaseline sends queries to the keyword-parsing search endpoint.
	ModeBaseline ModeName = "baseline"

	// ModeRetrieval sends queries to the retrieval-augmented generation endpoint.
	ModeRetrieval ModeName = "retrieval"

	// ModeAgent sends queries to the agent endpoint and exposes the agent toggle.
	ModeAgent ModeName = "agent"
)

// ToggleEndpoint is the path used to switch agent mode on the backend.
const ToggleEndpoint = "/api/toggle_langchain"

// Preview budgets in code points.
const (
	DefaultPreviewLength      = 40
	DefaultChunkPreviewLength = 100
	AgentPreviewLength        = 60
)

// VariantKind names a ResultVariant case.
type VariantKind string

// Available variant kinds.
const (
	VariantBaseline  VariantKind = "baseline"
	VariantRetrieval VariantKind = "retrieval"
	VariantAgent     VariantKind = "agent"
	VariantError     VariantKind = "error"
	VariantEmpty     VariantKind = "empty"
)

// ModeConfig parametrizes the chat controller.
// Every behavioural difference between modes lives here.
type ModeConfig struct {
	// Name identifies the mode.
	Name ModeName

	// Endpoint is the query path, e.g. "/query".
	Endpoint string

	// Variants lists the success variants this mode may produce.
	// Error and empty results are always possible.
	Variants []VariantKind

	// PreviewLength is the head-line budget for baseline items.
	PreviewLength int

	// ChunkPreviewLength is the head-line budget for retrieval chunks.
	ChunkPreviewLength int

	// Highlight enables keyword highlighting in item bodies.
	Highlight bool

	// AgentToggle enables the agent mode toggle.
	AgentToggle bool

	// UseRetrieval marks requests as retrieval requests.
	UseRetrieval bool
}

// Enables reports whether the mode may produce the given variant.
func (m ModeConfig) Enables(kind VariantKind) bool {
	if kind == VariantError || kind == VariantEmpty {
		return true
	}
	for _, v := range m.Variants {
		if v == kind {
			return true
		}
	}
	return false
}

// WithPreviewLengths returns a copy with the given budgets.
// Non-positive values keep the existing budget.
func (m ModeConfig) WithPreviewLengths(item, chunk int) ModeConfig {
	if item > 0 {
		m.PreviewLength = item
	}
	if chunk > 0 {
		m.ChunkPreviewLength = chunk
	}
	return m
}

var builtinModes = map[ModeName]ModeConfig{
	ModeBaseline: {
		Name:               ModeBaseline,
		Endpoint:           "/query",
		Variants:           []VariantKind{VariantBaseline},
		PreviewLength:      DefaultPreviewLength,
		ChunkPreviewLength: DefaultChunkPreviewLength,
		Highlight:          true,
	},
	ModeRetrieval: {
		Name:               ModeRetrieval,
		Endpoint:           "/rag_query",
		Variants:           []VariantKind{VariantRetrieval, VariantBaseline},
		PreviewLength:      DefaultPreviewLength,
		ChunkPreviewLength: DefaultChunkPreviewLength,
		Highlight:          true,
		UseRetrieval:       true,
	},
	ModeAgent: {
		Name:               ModeAgent,
		Endpoint:           "/api/query",
		Variants:           []VariantKind{VariantAgent, VariantBaseline},
		PreviewLength:      AgentPreviewLength,
		ChunkPreviewLength: DefaultChunkPreviewLength,
		AgentToggle:        true,
	},
}

// LookupMode returns the built-in configuration for a mode name.
func LookupMode(name ModeName) (ModeConfig, error) {
	m, ok := builtinModes[name]
	if !ok {
		return ModeConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	m.Variants = append([]VariantKind(nil), m.Variants...)
	return m, nil
}

// ModeNames returns the built-in mode names in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(builtinModes))
	for n := range builtinModes {
		names = append(names, string(n))
	}
	sort.Strings(names)
	return names
}

// AgentMode is the page-lifetime agent toggle state.
type AgentMode string

// Available agent mode states.
const (
	AgentOff     AgentMode = "off"
	AgentOn      AgentMode = "on"
	AgentPending AgentMode = "pending"
)

// ChatState is the query lifecycle state of the controller.
type ChatState string

// Available chat states.
const (
	StateIdle             ChatState = "idle"
	StateAwaitingResponse ChatState = "awaiting_response"
)
