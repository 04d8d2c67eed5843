package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for querychat resources.
	uriScheme = "querychat://"
)

// modeInfo is the JSON shape of the mode resource.
type modeInfo struct {
	Name               string   `json:"name"`
	Endpoint           string   `json:"endpoint"`
	Variants           []string `json:"variants"`
	PreviewLength      int      `json:"preview_length"`
	ChunkPreviewLength int      `json:"chunk_preview_length"`
	AgentToggle        bool     `json:"agent_toggle"`
	AgentMode          string   `json:"agent_mode"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "log",
		Name:        "log",
		Description: "The chat log of this session as HTML",
		MIMEType:    "text/html",
	}, s.handleLogResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "mode",
		Name:        "mode",
		Description: "The chat mode and agent state of this session",
		MIMEType:    "application/json",
	}, s.handleModeResource)
}

// handleLogResource returns the displayed chat log.
func (s *Server) handleLogResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/html",
			Text:     s.ports.Transcript.HTML(),
		}},
	}, nil
}

// handleModeResource returns the mode configuration.
func (s *Server) handleModeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	mode := s.ports.Chat.Mode()

	info := modeInfo{
		Name:               string(mode.Name),
		Endpoint:           mode.Endpoint,
		Variants:           make([]string, len(mode.Variants)),
		PreviewLength:      mode.PreviewLength,
		ChunkPreviewLength: mode.ChunkPreviewLength,
		AgentToggle:        mode.AgentToggle,
		AgentMode:          string(s.ports.Chat.AgentMode()),
	}
	for i, v := range mode.Variants {
		info.Variants[i] = string(v)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling mode: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
