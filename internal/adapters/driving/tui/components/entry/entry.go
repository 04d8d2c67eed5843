// Package entry converts chat entry HTML into terminal text.
//
// Only the small markup vocabulary produced by the chat renderer is
// understood: paragraphs, line breaks, ordered lists, <mark>, <strong>,
// <small>, <code>, <pre> and spans classed category, score or badge.
// Unknown tags are dropped and their text kept.
package entry

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/querychat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/querychat/internal/core/domain"
)

// Markers used for collapsible entries and by the plain renderer.
const (
	CollapsedMarker = "▸ "
	ExpandedMarker  = "▾ "
	plainMarkOpen   = "*"
	plainMarkClose  = "*"
	bodyIndent      = 4
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// Renderer turns entry HTML into wrapped terminal text.
type Renderer struct {
	styles *styles.Styles
	plain  bool
}

// NewRenderer creates a renderer that styles text with s.
func NewRenderer(s *styles.Styles) *Renderer {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Renderer{styles: s}
}

// NewPlainRenderer creates a renderer without colour. Highlights are
// wrapped in asterisks instead.
func NewPlainRenderer() *Renderer {
	return &Renderer{plain: true}
}

// Entry renders a whole entry. The body of a collapsible entry is only
// included when expanded. A width of zero disables wrapping.
func (r *Renderer) Entry(e domain.ChatEntry, expanded bool, width int) string {
	prefix := ""
	if e.Collapsible() {
		prefix = CollapsedMarker
		if expanded {
			prefix = ExpandedMarker
		}
	}

	head := r.Fragment(e.Content, wrapWidth(width, lipgloss.Width(prefix)))
	head = indent.String(head, uint(lipgloss.Width(prefix)))
	head = prefix + strings.TrimLeft(head, " ")

	var out string
	switch e.Role {
	case domain.RoleUser:
		out = r.style(r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.UserMessage }), "You: ") + head
	default:
		out = head
	}
	if e.Kind == domain.KindError && !r.plain {
		out = r.styles.Error.Render(out)
	}

	if e.Collapsible() && expanded && e.Body != "" {
		body := r.Fragment(e.Body, wrapWidth(width, bodyIndent))
		out += "\n" + indent.String(body, bodyIndent)
	}
	return out
}

// Fragment renders an HTML fragment. A width of zero disables wrapping.
func (r *Renderer) Fragment(fragment string, width int) string {
	w := &walker{r: r}
	w.walk(fragment)

	text := strings.TrimSpace(blankLines.ReplaceAllString(w.out.String(), "\n\n"))
	if width > 0 {
		text = wordwrap.String(text, width)
	}
	return text
}

func wrapWidth(width, used int) int {
	if width <= 0 {
		return 0
	}
	if w := width - used; w > 10 {
		return w
	}
	return 10
}

// styleOf picks a style from the renderer's styles, or a blank style in
// plain mode.
func (r *Renderer) styleOf(pick func(*styles.Styles) lipgloss.Style) *lipgloss.Style {
	if r.plain {
		return nil
	}
	s := pick(r.styles)
	return &s
}

func (r *Renderer) style(s *lipgloss.Style, text string) string {
	if s == nil || text == "" {
		return text
	}
	return s.Render(text)
}

// walker holds the state of a single fragment conversion.
type walker struct {
	r     *Renderer
	out   strings.Builder
	stack []frame
	lists []int
}

// frame is an open element and the style it applies to its text.
type frame struct {
	tag   atom.Atom
	style *lipgloss.Style
	after string
}

func (w *walker) walk(fragment string) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.TextToken:
			w.text(string(z.Text()))
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			w.open(atom.Lookup(name), classOf(z, hasAttr))
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				w.out.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			w.close(atom.Lookup(name))
		}
	}
}

func classOf(z *html.Tokenizer, hasAttr bool) string {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "class" {
			return string(val)
		}
	}
	return ""
}

func (w *walker) text(t string) {
	if t == "" {
		return
	}
	style := w.current()
	// Style each line separately so wrapping never splits an escape sequence
	// across a newline.
	lines := strings.Split(t, "\n")
	for i, line := range lines {
		if i > 0 {
			w.out.WriteString("\n")
		}
		w.out.WriteString(w.r.style(style, line))
	}
}

func (w *walker) current() *lipgloss.Style {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].style != nil {
			return w.stack[i].style
		}
	}
	return nil
}

func (w *walker) open(tag atom.Atom, class string) {
	r := w.r
	f := frame{tag: tag}

	switch tag {
	case atom.Br:
		w.out.WriteString("\n")
		return
	case atom.P, atom.Div:
		w.blockBreak()
		if class == "error" {
			f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Error })
		}
	case atom.Ol:
		w.blockBreak()
		w.lists = append(w.lists, 0)
	case atom.Li:
		w.blockBreak()
		n := 1
		if len(w.lists) > 0 {
			w.lists[len(w.lists)-1]++
			n = w.lists[len(w.lists)-1]
		}
		w.out.WriteString(strconv.Itoa(n) + ". ")
	case atom.Mark:
		if r.plain {
			w.out.WriteString(plainMarkOpen)
			f.after = plainMarkClose
		}
		f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Highlight })
	case atom.Strong, atom.B:
		f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Strong })
	case atom.Small:
		f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Muted })
	case atom.Code:
		f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Code })
	case atom.Pre:
		w.blockBreak()
		f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Code })
	case atom.Span:
		switch class {
		case "category":
			f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Category })
		case "score":
			f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Muted })
		case "badge":
			if !w.atLineStart() {
				w.out.WriteString(" ")
			}
			if r.plain {
				w.out.WriteString("[")
				f.after = "]"
			}
			f.style = r.styleOf(func(s *styles.Styles) lipgloss.Style { return s.Badge })
		}
	}

	w.stack = append(w.stack, f)
}

func (w *walker) close(tag atom.Atom) {
	for i := len(w.stack) - 1; i >= 0; i-- {
		if w.stack[i].tag != tag {
			continue
		}
		w.out.WriteString(w.stack[i].after)
		w.stack = w.stack[:i]
		break
	}

	switch tag {
	case atom.P, atom.Div, atom.Li, atom.Pre:
		w.blockBreak()
	case atom.Ol:
		if len(w.lists) > 0 {
			w.lists = w.lists[:len(w.lists)-1]
		}
		w.blockBreak()
	}
}

// blockBreak starts a new line unless the output already ends with one.
func (w *walker) blockBreak() {
	if w.atLineStart() {
		return
	}
	w.out.WriteString("\n")
}

func (w *walker) atLineStart() bool {
	s := w.out.String()
	return s == "" || strings.HasSuffix(s, "\n")
}
