package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleLogResource(t *testing.T) {
	server, _ := newTestServer(t, domain.ModeBaseline, &mockBackend{body: `{"results":[]}`})
	_, _, err := server.handleAsk(context.Background(), nil, AskInput{Query: "a <b>"})
	require.NoError(t, err)

	result, err := server.handleLogResource(context.Background(), readRequest(uriScheme+"log"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "text/html", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "Welcome")
	assert.Contains(t, result.Contents[0].Text, "a &lt;b&gt;")
	assert.Contains(t, result.Contents[0].Text, "No results found.")
}

func TestServer_handleModeResource(t *testing.T) {
	server, _ := newTestServer(t, domain.ModeAgent, &mockBackend{})

	result, err := server.handleModeResource(context.Background(), readRequest(uriScheme+"mode"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)

	var info modeInfo
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
	assert.Equal(t, "agent", info.Name)
	assert.Equal(t, "/api/query", info.Endpoint)
	assert.True(t, info.AgentToggle)
	assert.Equal(t, "off", info.AgentMode)
	assert.Equal(t, []string{"agent", "baseline"}, info.Variants)
}
