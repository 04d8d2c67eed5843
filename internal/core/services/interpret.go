package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/custodia-labs/querychat/internal/core/domain"
	"github.com/custodia-labs/querychat/internal/logger"
)

// NetworkErrorMessage is shown for transport failures and unreadable bodies.
const NetworkErrorMessage = "Network error, please try again later."

// DefaultQueryMethod is used when an agent response omits its method tag.
const DefaultQueryMethod = "langchain"

// Payload field names.
const (
	fieldError       = "error"
	fieldResponse    = "response"
	fieldQueryMethod = "query_method"
	fieldSteps       = "intermediate_steps"
	fieldInsights    = "insights"
	fieldAnswer      = "answer"
	fieldChunks      = "chunks"
	fieldResults     = "results"
	fieldParsed      = "parsed"
)

// wireItem is a result row or chunk as sent by the backend.
type wireItem struct {
	Category json.RawMessage `json:"category"`
	Text     json.RawMessage `json:"text"`
	Title    json.RawMessage `json:"title"`
	Score    json.RawMessage `json:"score"`
}

// wireStep is an agent step as sent by the backend.
type wireStep struct {
	Tool   json.RawMessage `json:"tool"`
	Input  json.RawMessage `json:"input"`
	Result json.RawMessage `json:"result"`
}

// wireParsed is the baseline endpoint's interpretation of the query.
type wireParsed struct {
	Keyword  json.RawMessage `json:"keyword"`
	Category json.RawMessage `json:"category"`
}

// Interpret classifies a raw backend payload into exactly one ResultVariant.
//
// Priority: error field, agent response (agent requests only), retrieval
// answer with chunks (retrieval requests only), non-empty results, empty.
// A variant the mode does not enable falls through to the next rule.
func Interpret(payload []byte, mode domain.ModeConfig, req domain.QueryRequest) domain.ResultVariant {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		if !json.Valid(payload) {
			logger.Warn("Response body is not JSON: %v", err)
			return domain.ErrorResult{Message: NetworkErrorMessage}
		}
		logger.Debug("Response is JSON but not an object, treating as empty")
		return domain.EmptyResult{}
	}

	variant := classify(fields, mode, req)
	logger.Debug("Interpreted payload as %s", variant.Kind())
	return variant
}

func classify(fields map[string]json.RawMessage, mode domain.ModeConfig, req domain.QueryRequest) domain.ResultVariant {
	if raw, ok := fields[fieldError]; ok && truthy(raw) {
		return domain.ErrorResult{Message: rawText(raw)}
	}

	if req.UseAgent && mode.Enables(domain.VariantAgent) {
		if raw, ok := fields[fieldResponse]; ok && !isNull(raw) {
			return interpretAgent(fields, raw)
		}
	}

	if req.UseRetrieval && mode.Enables(domain.VariantRetrieval) {
		answer, hasAnswer := fields[fieldAnswer]
		var chunks []wireItem
		if hasAnswer && !isNull(answer) && decodeList(fields[fieldChunks], &chunks) {
			return domain.RetrievalResult{
				AnswerText: rawText(answer),
				Chunks:     scoredItems(chunks, mode.ChunkPreviewLength),
			}
		}
	}

	if mode.Enables(domain.VariantBaseline) {
		var results []wireItem
		if decodeList(fields[fieldResults], &results) && len(results) > 0 {
			return interpretBaseline(fields, results, mode.PreviewLength)
		}
	}

	return domain.EmptyResult{}
}

func interpretAgent(fields map[string]json.RawMessage, response json.RawMessage) domain.AgentResult {
	result := domain.AgentResult{
		ResponseText:   rawText(response),
		QueryMethod:    DefaultQueryMethod,
		ReasoningSteps: []domain.Step{},
	}

	if method := rawText(fields[fieldQueryMethod]); method != "" {
		result.QueryMethod = method
	}

	var steps []wireStep
	if decodeList(fields[fieldSteps], &steps) {
		for _, s := range steps {
			result.ReasoningSteps = append(result.ReasoningSteps, domain.Step{
				Tool:   rawText(s.Tool),
				Input:  rawText(s.Input),
				Result: rawText(s.Result),
			})
		}
	}

	if raw, ok := fields[fieldInsights]; ok && !isNull(raw) {
		var insights domain.AgentInsights
		if err := json.Unmarshal(raw, &insights); err == nil {
			result.Insights = &insights
		} else {
			logger.Debug("Ignoring malformed agent insights: %v", err)
		}
	}

	return result
}

func interpretBaseline(fields map[string]json.RawMessage, rows []wireItem, budget int) domain.BaselineResult {
	result := domain.BaselineResult{
		ParsedKeyword:  domain.NoneSentinel,
		ParsedCategory: domain.NoneSentinel,
		Items:          make([]domain.Item, 0, len(rows)),
	}

	if raw, ok := fields[fieldParsed]; ok && !isNull(raw) {
		var parsed wireParsed
		if err := json.Unmarshal(raw, &parsed); err == nil {
			result.ParsedKeyword = orNone(rawText(parsed.Keyword))
			result.ParsedCategory = orNone(rawText(parsed.Category))
		}
	}

	for _, row := range rows {
		result.Items = append(result.Items, toItem(row, budget))
	}
	return result
}

func scoredItems(rows []wireItem, budget int) []domain.ScoredItem {
	items := make([]domain.ScoredItem, 0, len(rows))
	for _, row := range rows {
		item := domain.ScoredItem{Item: toItem(row, budget)}
		if !isNull(row.Score) {
			var n json.Number
			if err := json.Unmarshal(row.Score, &n); err == nil {
				if f, err := n.Float64(); err == nil {
					item.Score = &f
				}
			}
		}
		items = append(items, item)
	}
	return items
}

func toItem(row wireItem, budget int) domain.Item {
	text := rawText(row.Text)
	if text == "" {
		text = rawText(row.Title)
	}
	return domain.Item{
		Category:      orNone(rawText(row.Category)),
		Text:          text,
		PreviewLength: budget,
	}
}

// decodeList decodes raw into dst when raw is a JSON array.
func decodeList(raw json.RawMessage, dst any) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	return json.Unmarshal(trimmed, dst) == nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// truthy follows the backend convention that "", false, 0 and null mean absent.
func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`, "0":
		return false
	default:
		return true
	}
}

// rawText returns a JSON string's value, or the compact JSON text of any
// other value. Null and absent values are the empty string.
func rawText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.NoneSentinel
	}
	return s
}
