package services

import (
	"fmt"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces the five HTML-significant characters with entities.
// No other characters are altered; this is not a general sanitizer.
func Escape(raw string) string {
	if raw == "" {
		return ""
	}
	return htmlEscaper.Replace(raw)
}

// EscapeValue escapes an arbitrary decoded JSON value. Nil is the empty string.
func EscapeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Escape(t)
	default:
		return Escape(fmt.Sprint(t))
	}
}
