package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/querychat/internal/core/domain"
)

// Fixed system texts.
const (
	NoResultsMessage = "No results found."
	ErrorMarker      = "❌"
	expandHint       = "(click to expand)"
	ellipsis         = "…"
)

// IDGenerator produces unique entry identifiers.
type IDGenerator func() string

// NewUUID is the default IDGenerator.
func NewUUID() string {
	return uuid.NewString()
}

// Renderer turns result variants into chat entries.
// It holds configuration only and is safe for concurrent use.
type Renderer struct {
	mode  domain.ModeConfig
	newID IDGenerator
}

// NewRenderer creates a renderer for the given mode.
// A nil generator defaults to NewUUID.
func NewRenderer(mode domain.ModeConfig, newID IDGenerator) *Renderer {
	if newID == nil {
		newID = NewUUID
	}
	return &Renderer{mode: mode, newID: newID}
}

// Render produces the entries for one completed request.
func (r *Renderer) Render(variant domain.ResultVariant, query string) []domain.ChatEntry {
	switch v := variant.(type) {
	case domain.ErrorResult:
		return []domain.ChatEntry{r.ErrorEntry(v.Message)}
	case domain.EmptyResult:
		return []domain.ChatEntry{r.NoticeEntry(NoResultsMessage)}
	case domain.BaselineResult:
		return r.renderBaseline(v)
	case domain.RetrievalResult:
		return r.renderRetrieval(v, query)
	case domain.AgentResult:
		return []domain.ChatEntry{r.renderAgent(v)}
	default:
		return []domain.ChatEntry{r.ErrorEntry(fmt.Sprintf("unsupported result %T", variant))}
	}
}

// UserEntry echoes submitted text.
func (r *Renderer) UserEntry(text string) domain.ChatEntry {
	return domain.ChatEntry{
		ID:      r.newID(),
		Role:    domain.RoleUser,
		Kind:    domain.KindMessage,
		Content: "<p>" + Escape(text) + "</p>",
	}
}

// LoadingEntry is the indicator shown while a query is outstanding.
func (r *Renderer) LoadingEntry() domain.ChatEntry {
	return domain.ChatEntry{
		ID:      r.newID(),
		Role:    domain.RoleSystem,
		Kind:    domain.KindLoading,
		Content: "<span></span><span></span><span></span>",
	}
}

// NoticeEntry is an informational system line.
func (r *Renderer) NoticeEntry(text string) domain.ChatEntry {
	return domain.ChatEntry{
		ID:      r.newID(),
		Role:    domain.RoleSystem,
		Kind:    domain.KindNotice,
		Content: "<p>" + Escape(text) + "</p>",
	}
}

// ErrorEntry reports a failure with the error marker.
func (r *Renderer) ErrorEntry(message string) domain.ChatEntry {
	return domain.ChatEntry{
		ID:      r.newID(),
		Role:    domain.RoleSystem,
		Kind:    domain.KindError,
		Content: `<p class="error">` + ErrorMarker + " " + Escape(message) + "</p>",
	}
}

func (r *Renderer) renderBaseline(v domain.BaselineResult) []domain.ChatEntry {
	entries := make([]domain.ChatEntry, 0, len(v.Items)+1)
	entries = append(entries, domain.ChatEntry{
		ID:   r.newID(),
		Role: domain.RoleSystem,
		Kind: domain.KindNotice,
		Content: fmt.Sprintf("<p>AI understood: category=%s, keyword=%s</p><p>Found %d results:</p>",
			Escape(v.ParsedCategory), Escape(v.ParsedKeyword), len(v.Items)),
	})

	term := ""
	if r.mode.Highlight {
		term = v.HighlightTerm()
	}
	for _, item := range v.Items {
		entries = append(entries, r.itemEntry(item, nil, []string{term}))
	}
	return entries
}

func (r *Renderer) renderRetrieval(v domain.RetrievalResult, query string) []domain.ChatEntry {
	entries := make([]domain.ChatEntry, 0, len(v.Chunks)+1)
	entries = append(entries, domain.ChatEntry{
		ID:   r.newID(),
		Role: domain.RoleSystem,
		Kind: domain.KindSummary,
		Content: `<div class="summary"><strong>Summary</strong><p>` +
			multiline(v.AnswerText) + `</p></div>`,
	})

	var terms []string
	if r.mode.Highlight {
		terms = queryTerms(query)
	}
	for _, chunk := range v.Chunks {
		entries = append(entries, r.itemEntry(chunk.Item, chunk.Score, terms))
	}
	return entries
}

func (r *Renderer) itemEntry(item domain.Item, score *float64, terms []string) domain.ChatEntry {
	var head strings.Builder
	head.WriteString(`<span class="category">[` + Escape(item.Category) + `]</span> `)
	head.WriteString(Escape(item.Preview()))
	if item.Truncated() {
		head.WriteString(ellipsis)
	}
	if score != nil {
		head.WriteString(` <span class="score">(score ` + FormatScore(*score) + `)</span>`)
	}
	head.WriteString(` <small>` + expandHint + `</small>`)

	return domain.ChatEntry{
		ID:          r.newID(),
		Role:        domain.RoleSystem,
		Kind:        domain.KindItem,
		Content:     head.String(),
		Body:        "<p>" + strings.ReplaceAll(HighlightTerms(item.Text, terms), "\n", "<br>") + "</p>",
		CollapsedID: "item-" + r.newID(),
	}
}

func (r *Renderer) renderAgent(v domain.AgentResult) domain.ChatEntry {
	var content strings.Builder
	content.WriteString("<p>" + multiline(v.ResponseText) + "</p>")
	content.WriteString(`<span class="badge">` + Escape(v.QueryMethod) + `</span>`)
	if v.Insights != nil && len(v.Insights.TablesUsed) > 0 {
		content.WriteString(`<p><small>Tables used: ` + Escape(strings.Join(v.Insights.TablesUsed, ", ")) + `</small></p>`)
	}

	entry := domain.ChatEntry{
		ID:   r.newID(),
		Role: domain.RoleSystem,
		Kind: domain.KindAgent,
	}

	if len(v.ReasoningSteps) == 0 {
		entry.Content = content.String()
		return entry
	}

	content.WriteString(fmt.Sprintf(` <small>(click to show %d reasoning steps)</small>`, len(v.ReasoningSteps)))

	var body strings.Builder
	body.WriteString(`<ol class="steps">`)
	for _, s := range v.ReasoningSteps {
		body.WriteString("<li><strong>" + Escape(s.Tool) + "</strong>")
		body.WriteString("<div>Input: <code>" + Escape(s.Input) + "</code></div>")
		body.WriteString("<div>Result: <pre>" + Escape(s.Result) + "</pre></div></li>")
	}
	body.WriteString("</ol>")

	entry.Content = content.String()
	entry.Body = body.String()
	entry.CollapsedID = "steps-" + r.newID()
	return entry
}

// FormatScore renders a score in its shortest decimal form, e.g. 0.9.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func multiline(text string) string {
	return strings.ReplaceAll(Escape(text), "\n", "<br>")
}
