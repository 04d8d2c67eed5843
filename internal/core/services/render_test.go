package services

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

// sequentialIDs returns an IDGenerator yielding id-1, id-2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

func newTestRenderer(t *testing.T, name domain.ModeName) *Renderer {
	t.Helper()
	return NewRenderer(mustMode(t, name), sequentialIDs())
}

func TestNewRenderer_DefaultIDs(t *testing.T) {
	r := NewRenderer(domain.ModeConfig{}, nil)

	a := r.NoticeEntry("x")
	b := r.NoticeEntry("x")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRender_Error(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)

	entries := r.Render(domain.ErrorResult{Message: "<bad>"}, "q")

	require.Len(t, entries, 1)
	assert.Equal(t, domain.KindError, entries[0].Kind)
	assert.Equal(t, domain.RoleSystem, entries[0].Role)
	assert.Contains(t, entries[0].Content, ErrorMarker+" &lt;bad&gt;")
	assert.NotContains(t, entries[0].Content, "<bad>")
}

func TestRender_Empty(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)

	entries := r.Render(domain.EmptyResult{}, "q")

	require.Len(t, entries, 1)
	assert.Equal(t, domain.KindNotice, entries[0].Kind)
	assert.Contains(t, entries[0].Content, NoResultsMessage)
}

func TestRender_Baseline(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)
	long := "The new phone from a <big> maker arrives with a PHONE case included"
	result := domain.BaselineResult{
		ParsedKeyword:  "phone",
		ParsedCategory: "tech",
		Items: []domain.Item{
			{Category: "tech", Text: long, PreviewLength: 40},
			{Category: domain.NoneSentinel, Text: "short", PreviewLength: 40},
		},
	}

	entries := r.Render(result, "tech news about phones")

	require.Len(t, entries, 3)
	assert.Contains(t, entries[0].Content, "AI understood: category=tech, keyword=phone")
	assert.Contains(t, entries[0].Content, "Found 2 results:")

	item := entries[1]
	assert.Equal(t, domain.KindItem, item.Kind)
	assert.True(t, item.Collapsible())
	assert.True(t, strings.HasPrefix(item.CollapsedID, "item-"))
	assert.Contains(t, item.Content, `[tech]`)
	assert.Contains(t, item.Content, Escape(string([]rune(long)[:40]))+ellipsis)
	assert.Contains(t, item.Content, expandHint)
	assert.Contains(t, item.Body, "<mark>phone</mark>")
	assert.Contains(t, item.Body, "<mark>PHONE</mark>")
	assert.Contains(t, item.Body, "&lt;big&gt;")

	assert.NotContains(t, entries[2].Content, ellipsis)
	assert.Contains(t, entries[2].Content, "[None]")
}

func TestRender_BaselineWithoutKeyword(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)
	result := domain.BaselineResult{
		ParsedKeyword:  domain.NoneSentinel,
		ParsedCategory: domain.NoneSentinel,
		Items:          []domain.Item{{Category: "tech", Text: "None of this", PreviewLength: 40}},
	}

	entries := r.Render(result, "q")

	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].Body, "<mark>")
}

func TestRender_Retrieval(t *testing.T) {
	r := newTestRenderer(t, domain.ModeRetrieval)
	score := 0.9
	result := domain.RetrievalResult{
		AnswerText: "X\nY",
		Chunks: []domain.ScoredItem{
			{Item: domain.Item{Category: "A", Text: "t", PreviewLength: 100}, Score: &score},
			{Item: domain.Item{Category: "B", Text: "Phones everywhere", PreviewLength: 100}},
		},
	}

	entries := r.Render(result, "phones")

	require.Len(t, entries, 3)
	assert.Equal(t, domain.KindSummary, entries[0].Kind)
	assert.Contains(t, entries[0].Content, "X<br>Y")

	assert.Contains(t, entries[1].Content, "[A]")
	assert.Contains(t, entries[1].Content, "(score 0.9)")
	assert.Equal(t, "<p>t</p>", entries[1].Body)

	assert.NotContains(t, entries[2].Content, "score")
	assert.Contains(t, entries[2].Body, "<mark>Phones</mark>")
}

func TestRender_AgentWithSteps(t *testing.T) {
	r := newTestRenderer(t, domain.ModeAgent)
	result := domain.AgentResult{
		ResponseText: "Found <3>",
		QueryMethod:  "sql_agent",
		ReasoningSteps: []domain.Step{
			{Tool: "sql", Input: "SELECT 1", Result: "1"},
			{Tool: "summarise", Input: "x", Result: "y"},
		},
		Insights: &domain.AgentInsights{TablesUsed: []string{"news", "authors"}},
	}

	entries := r.Render(result, "q")

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, domain.KindAgent, e.Kind)
	assert.Contains(t, e.Content, "Found &lt;3&gt;")
	assert.Contains(t, e.Content, `<span class="badge">sql_agent</span>`)
	assert.Contains(t, e.Content, "Tables used: news, authors")
	assert.Contains(t, e.Content, "2 reasoning steps")
	assert.True(t, strings.HasPrefix(e.CollapsedID, "steps-"))
	assert.Less(t, strings.Index(e.Body, "sql"), strings.Index(e.Body, "summarise"))
}

func TestRender_AgentWithoutSteps(t *testing.T) {
	r := newTestRenderer(t, domain.ModeAgent)

	entries := r.Render(domain.AgentResult{ResponseText: "ok", QueryMethod: "langchain"}, "q")

	require.Len(t, entries, 1)
	assert.False(t, entries[0].Collapsible())
	assert.Empty(t, entries[0].Body)
	assert.NotContains(t, entries[0].Content, "Tables used")
}

func TestRenderer_UserEntryEscapes(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)

	e := r.UserEntry(`<img src=x onerror="alert(1)">`)

	assert.Equal(t, domain.RoleUser, e.Role)
	assert.NotContains(t, e.Content, "<img")
	assert.Contains(t, e.Content, "&lt;img src=x onerror=&quot;alert(1)&quot;&gt;")
}

func TestRenderer_LoadingEntry(t *testing.T) {
	r := newTestRenderer(t, domain.ModeBaseline)

	e := r.LoadingEntry()

	assert.Equal(t, domain.KindLoading, e.Kind)
	assert.Equal(t, "id-1", e.ID)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0.9", FormatScore(0.9))
	assert.Equal(t, "1", FormatScore(1))
	assert.Equal(t, "0.123456", FormatScore(0.123456))
}
