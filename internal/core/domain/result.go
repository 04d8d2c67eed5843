package domain

// NoneSentinel is shown in place of an absent parsed field.
const NoneSentinel = "None"

// ResultVariant is the closed set of interpreted backend responses.
// Exactly one variant is produced per completed request.
type ResultVariant interface {
	// Kind names the active case.
	Kind() VariantKind

	isResultVariant()
}

// Item is a single result row.
type Item struct {
	// Category is the item category, or NoneSentinel when absent.
	Category string `json:"category"`

	// Text is the full item text.
	Text string `json:"text"`

	// PreviewLength is the head-line budget in code points.
	PreviewLength int `json:"preview_length"`
}

// Preview returns a prefix of Text holding at most PreviewLength code points.
func (i Item) Preview() string {
	if i.PreviewLength <= 0 {
		return i.Text
	}
	n := 0
	for idx := range i.Text {
		if n == i.PreviewLength {
			return i.Text[:idx]
		}
		n++
	}
	return i.Text
}

// Truncated reports whether Preview is shorter than Text.
func (i Item) Truncated() bool {
	return len(i.Preview()) < len(i.Text)
}

// ScoredItem is an Item with an optional relevance score.
type ScoredItem struct {
	Item

	// Score is nil when the backend did not report one.
	Score *float64 `json:"score,omitempty"`
}

// Step is one agent tool invocation. Order is display order.
type Step struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Result string `json:"result"`
}

// AgentInsights summarises an agent run when the backend reports it.
type AgentInsights struct {
	Summary    string   `json:"summary,omitempty"`
	StepCount  int      `json:"query_complexity,omitempty"`
	TablesUsed []string `json:"tables_used,omitempty"`
}

// BaselineResult carries keyword/category parsed items.
type BaselineResult struct {
	// ParsedKeyword is the keyword the backend extracted, or NoneSentinel.
	ParsedKeyword string

	// ParsedCategory is the category the backend extracted, or NoneSentinel.
	ParsedCategory string

	// Items holds at least one item.
	Items []Item
}

// HighlightTerm returns the keyword to highlight, or "" when none was parsed.
func (r BaselineResult) HighlightTerm() string {
	if r.ParsedKeyword == NoneSentinel {
		return ""
	}
	return r.ParsedKeyword
}

// RetrievalResult carries a synthesised answer and its supporting chunks.
type RetrievalResult struct {
	AnswerText string
	Chunks     []ScoredItem
}

// AgentResult carries an agent response.
type AgentResult struct {
	ResponseText   string
	QueryMethod    string
	ReasoningSteps []Step
	Insights       *AgentInsights
}

// ErrorResult carries a failure message, either server-reported or generic.
type ErrorResult struct {
	Message string
}

// EmptyResult means the query matched nothing. It is not an error.
type EmptyResult struct{}

func (BaselineResult) Kind() VariantKind  { return VariantBaseline }
func (RetrievalResult) Kind() VariantKind { return VariantRetrieval }
func (AgentResult) Kind() VariantKind     { return VariantAgent }
func (ErrorResult) Kind() VariantKind     { return VariantError }
func (EmptyResult) Kind() VariantKind     { return VariantEmpty }

func (BaselineResult) isResultVariant()  {}
func (RetrievalResult) isResultVariant() {}
func (AgentResult) isResultVariant()     {}
func (ErrorResult) isResultVariant()     {}
func (EmptyResult) isResultVariant()     {}
