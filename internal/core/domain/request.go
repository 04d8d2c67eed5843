package domain

import "strings"

// QueryRequest is one submission to the query backend.
// It is constructed fresh per submission and never reused.
type QueryRequest struct {
	// Text is the trimmed, non-empty query text.
	Text string

	// UseRetrieval requests retrieval-augmented answers.
	UseRetrieval bool

	// UseAgent requests the agent endpoint behaviour.
	UseAgent bool
}

// NewQueryRequest trims text and builds a request.
// Returns ErrEmptyQuery when nothing is left after trimming.
func NewQueryRequest(text string, useRetrieval, useAgent bool) (QueryRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return QueryRequest{}, ErrEmptyQuery
	}
	return QueryRequest{
		Text:         text,
		UseRetrieval: useRetrieval,
		UseAgent:     useAgent,
	}, nil
}
