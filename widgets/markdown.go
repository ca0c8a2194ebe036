package widgets

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// MarkdownTheme styles the rendered document.
type MarkdownTheme struct {
	Text     backend.Style
	Heading  backend.Style
	Strong   backend.Style
	Emphasis backend.Style
	Code     backend.Style
	Rule     backend.Style
}

// DefaultMarkdownTheme returns the built-in theme.
func DefaultMarkdownTheme() MarkdownTheme {
	base := backend.DefaultStyle()
	return MarkdownTheme{
		Text:     base,
		Heading:  base.Foreground(backend.ColorAqua).Bold(true),
		Strong:   base.Bold(true),
		Emphasis: base.Italic(true),
		Code:     base.Foreground(backend.ColorYellow),
		Rule:     base.Dim(true),
	}
}

// Markdown renders a markdown document parsed with goldmark.
// Block structure is kept; lines are not rewrapped.
type Markdown struct {
	Base
	parser goldmark.Markdown
	theme  MarkdownTheme
	source string
	lines  [][]span
}

// NewMarkdown parses source into a widget.
func NewMarkdown(source string) *Markdown {
	m := &Markdown{
		parser: goldmark.New(),
		theme:  DefaultMarkdownTheme(),
	}
	m.SetSource(source)
	return m
}

// SetTheme restyles the document.
func (m *Markdown) SetTheme(theme MarkdownTheme) {
	m.theme = theme
	m.SetSource(m.source)
}

// SetSource replaces the document.
func (m *Markdown) SetSource(source string) {
	m.source = source
	src := []byte(source)
	doc := m.parser.Parser().Parse(text.NewReader(src))
	r := mdRenderer{src: src, theme: m.theme}
	r.blocks(doc, "")
	for len(r.lines) > 0 && len(r.lines[len(r.lines)-1]) == 0 {
		r.lines = r.lines[:len(r.lines)-1]
	}
	m.lines = r.lines
}

// Lines returns the plain text of each rendered row.
func (m *Markdown) Lines() []string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		var sb strings.Builder
		for _, s := range line {
			sb.WriteString(s.text)
		}
		out[i] = sb.String()
	}
	return out
}

// Measure returns the widest line and the line count.
func (m *Markdown) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(measureText(strings.Join(m.Lines(), "\n")))
}

// Render draws the document, clipped to the bounds.
func (m *Markdown) Render(ctx runtime.RenderContext) {
	renderSpans(ctx.Buffer, m.bounds, m.lines)
}

type mdRenderer struct {
	src   []byte
	theme MarkdownTheme
	lines [][]span
}

func (r *mdRenderer) blank() {
	if len(r.lines) > 0 && len(r.lines[len(r.lines)-1]) > 0 {
		r.lines = append(r.lines, nil)
	}
}

func (r *mdRenderer) blocks(parent ast.Node, indent string) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, indent)
	}
}

func (r *mdRenderer) block(n ast.Node, indent string) {
	switch node := n.(type) {
	case *ast.Heading:
		line := r.inline(node, r.theme.Heading)
		r.lines = append(r.lines, prefixed(indent, line, r.theme.Text))
		r.blank()
	case *ast.Paragraph:
		r.lines = append(r.lines, prefixed(indent, r.inline(node, r.theme.Text), r.theme.Text))
		if _, inItem := node.Parent().(*ast.ListItem); !inItem {
			r.blank()
		}
	case *ast.TextBlock:
		r.lines = append(r.lines, prefixed(indent, r.inline(node, r.theme.Text), r.theme.Text))
	case *ast.List:
		num := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d. ", num)
				num++
			}
			start := len(r.lines)
			r.blocks(item, indent+strings.Repeat(" ", len([]rune(marker))))
			if start < len(r.lines) {
				r.lines[start] = replaceIndent(r.lines[start], indent+marker, r.theme.Text)
			}
		}
		r.blank()
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code := strings.TrimRight(string(seg.Value(r.src)), "\n")
			r.lines = append(r.lines, []span{{text: indent + "  " + code, style: r.theme.Code}})
		}
		r.blank()
	case *ast.ThematicBreak:
		r.lines = append(r.lines, []span{{text: indent + strings.Repeat("─", 20), style: r.theme.Rule}})
		r.blank()
	case *ast.Blockquote:
		r.blocks(node, indent+"│ ")
	default:
		r.blocks(n, indent)
	}
}

// inline flattens the inline children of n into styled spans.
func (r *mdRenderer) inline(n ast.Node, style backend.Style) []span {
	var out []span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = append(out, span{text: string(node.Segment.Value(r.src)), style: style})
			if node.SoftLineBreak() || node.HardLineBreak() {
				out = append(out, span{text: " ", style: style})
			}
		case *ast.String:
			out = append(out, span{text: string(node.Value), style: style})
		case *ast.CodeSpan:
			out = append(out, r.inline(node, r.theme.Code)...)
		case *ast.Emphasis:
			s := r.theme.Emphasis
			if node.Level >= 2 {
				s = r.theme.Strong
			}
			out = append(out, r.inline(node, s)...)
		case *ast.AutoLink:
			out = append(out, span{text: string(node.Label(r.src)), style: style.Underline(true)})
		default:
			out = append(out, r.inline(c, style)...)
		}
	}
	return out
}

func prefixed(indent string, line []span, style backend.Style) []span {
	if indent == "" {
		return line
	}
	return append([]span{{text: indent, style: style}}, line...)
}

// replaceIndent swaps the leading indent span of line for prefix.
func replaceIndent(line []span, prefix string, style backend.Style) []span {
	if len(line) > 0 && strings.TrimSpace(line[0].text) == "" {
		line = line[1:]
	}
	return append([]span{{text: prefix, style: style}}, line...)
}
