// Package mcp provides an MCP (Model Context Protocol) server adapter for querychat.
// It lets AI assistants ask the news backend and switch its agent mode.
package mcp

import "errors"

// ErrMissingChatController is returned when the chat controller is not provided.
var ErrMissingChatController = errors.New("mcp: chat controller is required")

// ErrMissingTranscript is returned when the transcript is not provided.
var ErrMissingTranscript = errors.New("mcp: transcript is required")
