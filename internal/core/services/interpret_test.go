package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

func mustMode(t *testing.T, name domain.ModeName) domain.ModeConfig {
	t.Helper()
	m, err := domain.LookupMode(name)
	require.NoError(t, err)
	return m
}

func TestInterpret_ErrorWins(t *testing.T) {
	mode := mustMode(t, domain.ModeAgent)
	req := domain.QueryRequest{Text: "q", UseAgent: true}

	got := Interpret([]byte(`{"error":"boom","response":"ignored","results":[{"text":"x"}]}`), mode, req)

	assert.Equal(t, domain.ErrorResult{Message: "boom"}, got)
}

func TestInterpret_FalsyErrorIgnored(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)

	got := Interpret([]byte(`{"error":null,"results":[]}`), mode, domain.QueryRequest{Text: "q"})

	assert.Equal(t, domain.EmptyResult{}, got)
}

func TestInterpret_NotJSON(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)

	got := Interpret([]byte("<html>502 Bad Gateway</html>"), mode, domain.QueryRequest{Text: "q"})

	assert.Equal(t, domain.ErrorResult{Message: NetworkErrorMessage}, got)
}

func TestInterpret_NonObjectJSONIsEmpty(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)

	got := Interpret([]byte(`[1,2]`), mode, domain.QueryRequest{Text: "q"})

	assert.Equal(t, domain.EmptyResult{}, got)
}

func TestInterpret_EmptyResults(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)

	got := Interpret([]byte(`{"results":[]}`), mode, domain.QueryRequest{Text: "q"})

	assert.Equal(t, domain.EmptyResult{}, got)
}

func TestInterpret_Baseline(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)
	payload := `{"parsed":{"keyword":"phone","category":"tech"},
		"results":[{"category":"tech","text":"New phone released"},{"title":"Only a title"}]}`

	got := Interpret([]byte(payload), mode, domain.QueryRequest{Text: "tech news about phones"})

	result, ok := got.(domain.BaselineResult)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "phone", result.ParsedKeyword)
	assert.Equal(t, "tech", result.ParsedCategory)
	require.Len(t, result.Items, 2)
	assert.Equal(t, domain.Item{Category: "tech", Text: "New phone released", PreviewLength: 40}, result.Items[0])
	assert.Equal(t, domain.NoneSentinel, result.Items[1].Category)
	assert.Equal(t, "Only a title", result.Items[1].Text)
}

func TestInterpret_BaselineParsedDefaultsToNone(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)

	got := Interpret([]byte(`{"parsed":{"keyword":null},"results":[{"text":"x"}]}`), mode, domain.QueryRequest{Text: "q"})

	result, ok := got.(domain.BaselineResult)
	require.True(t, ok)
	assert.Equal(t, domain.NoneSentinel, result.ParsedKeyword)
	assert.Equal(t, domain.NoneSentinel, result.ParsedCategory)
	assert.Empty(t, result.HighlightTerm())
}

func TestInterpret_Retrieval(t *testing.T) {
	mode := mustMode(t, domain.ModeRetrieval)
	req := domain.QueryRequest{Text: "q", UseRetrieval: true}

	got := Interpret([]byte(`{"answer":"X","chunks":[{"category":"A","text":"t","score":0.9},{"text":"u"}]}`), mode, req)

	result, ok := got.(domain.RetrievalResult)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "X", result.AnswerText)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "A", result.Chunks[0].Category)
	assert.Equal(t, 100, result.Chunks[0].PreviewLength)
	require.NotNil(t, result.Chunks[0].Score)
	assert.InDelta(t, 0.9, *result.Chunks[0].Score, 1e-9)
	assert.Nil(t, result.Chunks[1].Score)
	assert.Equal(t, domain.NoneSentinel, result.Chunks[1].Category)
}

func TestInterpret_RetrievalWithoutChunksFallsThrough(t *testing.T) {
	mode := mustMode(t, domain.ModeRetrieval)
	req := domain.QueryRequest{Text: "q", UseRetrieval: true}

	got := Interpret([]byte(`{"answer":"X","results":[{"text":"r"}]}`), mode, req)

	assert.IsType(t, domain.BaselineResult{}, got)
}

func TestInterpret_RetrievalRequiresRetrievalRequest(t *testing.T) {
	mode := mustMode(t, domain.ModeRetrieval)

	got := Interpret([]byte(`{"answer":"X","chunks":[]}`), mode, domain.QueryRequest{Text: "q"})

	assert.Equal(t, domain.EmptyResult{}, got)
}

func TestInterpret_Agent(t *testing.T) {
	mode := mustMode(t, domain.ModeAgent)
	req := domain.QueryRequest{Text: "q", UseAgent: true}
	payload := `{"response":"Three articles.","query_method":"sql_agent",
		"intermediate_steps":[{"tool":"sql","input":{"q":"SELECT 1"},"result":"1"}],
		"insights":{"summary":"s","query_complexity":1,"tables_used":["news"]}}`

	got := Interpret([]byte(payload), mode, req)

	result, ok := got.(domain.AgentResult)
	require.True(t, ok, "got %T", got)
	assert.Equal(t, "Three articles.", result.ResponseText)
	assert.Equal(t, "sql_agent", result.QueryMethod)
	require.Len(t, result.ReasoningSteps, 1)
	assert.Equal(t, domain.Step{Tool: "sql", Input: `{"q":"SELECT 1"}`, Result: "1"}, result.ReasoningSteps[0])
	require.NotNil(t, result.Insights)
	assert.Equal(t, []string{"news"}, result.Insights.TablesUsed)
	assert.Equal(t, 1, result.Insights.StepCount)
}

func TestInterpret_AgentDefaults(t *testing.T) {
	mode := mustMode(t, domain.ModeAgent)
	req := domain.QueryRequest{Text: "q", UseAgent: true}

	got := Interpret([]byte(`{"response":"ok"}`), mode, req)

	result, ok := got.(domain.AgentResult)
	require.True(t, ok)
	assert.Equal(t, DefaultQueryMethod, result.QueryMethod)
	assert.NotNil(t, result.ReasoningSteps)
	assert.Empty(t, result.ReasoningSteps)
	assert.Nil(t, result.Insights)
}

func TestInterpret_AgentEmptyResultsNeverBaseline(t *testing.T) {
	mode := mustMode(t, domain.ModeAgent)
	req := domain.QueryRequest{Text: "q", UseAgent: true}

	got := Interpret([]byte(`{"response":"nothing","results":[]}`), mode, req)

	assert.IsType(t, domain.AgentResult{}, got)
}

func TestInterpret_AgentOffUsesBaseline(t *testing.T) {
	mode := mustMode(t, domain.ModeAgent)

	got := Interpret([]byte(`{"response":"r","results":[{"text":"x"}]}`), mode, domain.QueryRequest{Text: "q"})

	result, ok := got.(domain.BaselineResult)
	require.True(t, ok)
	assert.Equal(t, domain.AgentPreviewLength, result.Items[0].PreviewLength)
}

func TestInterpret_DisabledVariantFallsThrough(t *testing.T) {
	mode := mustMode(t, domain.ModeBaseline)
	req := domain.QueryRequest{Text: "q", UseAgent: true, UseRetrieval: true}

	got := Interpret([]byte(`{"response":"r","answer":"a","chunks":[]}`), mode, req)

	assert.Equal(t, domain.EmptyResult{}, got)
}

func TestTruthy(t *testing.T) {
	for _, raw := range []string{"", "null", "false", `""`, "0"} {
		assert.False(t, truthy([]byte(raw)), raw)
	}
	for _, raw := range []string{`"x"`, "true", "1", "{}"} {
		assert.True(t, truthy([]byte(raw)), raw)
	}
}

func TestRawText(t *testing.T) {
	assert.Equal(t, "", rawText(nil))
	assert.Equal(t, "", rawText([]byte("null")))
	assert.Equal(t, "hi", rawText([]byte(`"hi"`)))
	assert.Equal(t, "42", rawText([]byte("42")))
	assert.Equal(t, `{"a":1}`, rawText([]byte(`{ "a" : 1 }`)))
}
