package domain

import "errors"

// Domain errors represent chat lifecycle outcomes.
// None of them are fatal; the controller turns failures into log entries.
var (
	// ErrEmptyQuery indicates the submitted text was empty after trimming.
	// Submitting it is a no-op, not a failure.
	ErrEmptyQuery = errors.New("empty query")

	// ErrQueryInFlight indicates a submit arrived while a query was outstanding.
	ErrQueryInFlight = errors.New("query already in flight")

	// ErrTogglePending indicates a toggle arrived while another was outstanding.
	ErrTogglePending = errors.New("agent toggle already pending")

	// ErrToggleUnavailable indicates the active mode has no agent toggle.
	ErrToggleUnavailable = errors.New("agent toggle not available in this mode")

	// ErrUnknownMode indicates an unrecognised mode name.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Backend Errors.

	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failure")

	// ErrInvalidResponse indicates the response body was not JSON.
	ErrInvalidResponse = errors.New("invalid response body")

	// ErrToggleRejected indicates the backend refused a mode toggle.
	ErrToggleRejected = errors.New("toggle rejected by backend")
)
