package tui

import "errors"

// ErrMissingChatController is returned when the chat controller is not provided.
var ErrMissingChatController = errors.New("tui: chat controller is required")

// ErrMissingSurface is returned when the chat surface is not provided.
var ErrMissingSurface = errors.New("tui: chat surface is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
