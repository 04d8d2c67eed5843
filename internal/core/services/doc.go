// Package services implements the driving port interfaces.
// Services contain the core chat logic and orchestrate
// calls to driven ports (adapters).
//
// The pure parts (Escape, Highlight, Interpret, Renderer) keep no state.
// ChatService owns the request lifecycle and the MessageLog.
package services
