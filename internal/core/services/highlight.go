package services

import (
	"strings"
	"unicode/utf8"
)

// Highlight markers wrap each keyword occurrence.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// span is a byte range [start, end) of a match in the source text.
type span struct {
	start, end int
}

// Highlight escapes text and wraps every case-insensitive literal
// occurrence of keyword in <mark>. An empty keyword only escapes.
func Highlight(text, keyword string) string {
	return HighlightTerms(text, []string{keyword})
}

// HighlightTerms is Highlight for several keywords. At each position the
// longest matching term wins; matches never overlap.
func HighlightTerms(text string, terms []string) string {
	spans := matchSpans(text, terms)
	if len(spans) == 0 {
		return Escape(text)
	}

	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(Escape(text[prev:s.start]))
		b.WriteString(markOpen)
		b.WriteString(Escape(text[s.start:s.end]))
		b.WriteString(markClose)
		prev = s.end
	}
	b.WriteString(Escape(text[prev:]))
	return b.String()
}

// matchSpans finds leftmost, non-overlapping, case-insensitive matches.
// Terms are compared literally, rune by rune, so pattern metacharacters
// have no special meaning.
func matchSpans(text string, terms []string) []span {
	active := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			active = append(active, t)
		}
	}
	if len(active) == 0 || text == "" {
		return nil
	}

	var spans []span
	for i := 0; i < len(text); {
		end := -1
		for _, term := range active {
			if e := foldPrefix(text[i:], term); e > 0 && i+e > end {
				end = i + e
			}
		}
		if end > 0 {
			spans = append(spans, span{start: i, end: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// foldPrefix returns the byte length of the prefix of s that equals term
// under simple case folding, or 0 when there is none.
func foldPrefix(s, term string) int {
	n := utf8.RuneCountInString(term)
	end := 0
	for k := 0; k < n; k++ {
		if end >= len(s) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
	}
	if strings.EqualFold(s[:end], term) {
		return end
	}
	return 0
}

// queryTerms splits a query into highlightable words of at least
// minTermLength code points, with surrounding punctuation removed.
func queryTerms(query string) []string {
	const minTermLength = 3

	var terms []string
	for _, f := range strings.Fields(query) {
		f = strings.Trim(f, ".,;:?!\"'()[]{}")
		if utf8.RuneCountInString(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	return terms
}
