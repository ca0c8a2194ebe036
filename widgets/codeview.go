package widgets

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
)

// span is a run of text drawn in one style.
type span struct {
	text  string
	style backend.Style
}

// CodeView displays source code highlighted with a chroma lexer and style.
type CodeView struct {
	Base
	lexer chroma.Lexer
	style *chroma.Style
	code  string
	lines [][]span
}

// NewCodeView creates a view for the named language and chroma style.
// Unknown languages fall back to plain text.
func NewCodeView(language, styleName string) *CodeView {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &CodeView{
		lexer: chroma.Coalesce(lexer),
		style: styles.Get(styleName),
	}
}

// Code returns the displayed source.
func (v *CodeView) Code() string {
	return v.code
}

// SetCode replaces the source and re-highlights it.
func (v *CodeView) SetCode(code string) {
	v.code = code
	v.lines = v.highlight(code)
}

// Lines returns the plain text of each displayed row.
func (v *CodeView) Lines() []string {
	out := make([]string, len(v.lines))
	for i, line := range v.lines {
		var sb strings.Builder
		for _, s := range line {
			sb.WriteString(s.text)
		}
		out[i] = sb.String()
	}
	return out
}

func (v *CodeView) highlight(code string) [][]span {
	code = strings.TrimRight(code, "\n")
	if code == "" {
		return nil
	}
	it, err := v.lexer.Tokenise(nil, code)
	if err != nil {
		return plainLines(code)
	}
	lines := [][]span{nil}
	for _, tok := range it.Tokens() {
		style := tokenStyle(v.style, tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], span{text: part, style: style})
			}
		}
	}
	for len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func plainLines(code string) [][]span {
	var lines [][]span
	for _, line := range strings.Split(code, "\n") {
		lines = append(lines, []span{{text: line, style: backend.DefaultStyle()}})
	}
	return lines
}

// tokenStyle maps a chroma style entry onto a cell style. Backgrounds are
// left to the terminal.
func tokenStyle(style *chroma.Style, tt chroma.TokenType) backend.Style {
	out := backend.DefaultStyle()
	if style == nil {
		return out
	}
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		out = out.Foreground(backend.ColorRGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
	}
	return out.
		Bold(entry.Bold == chroma.Yes).
		Italic(entry.Italic == chroma.Yes).
		Underline(entry.Underline == chroma.Yes)
}

// Measure returns the widest line and the line count.
func (v *CodeView) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(measureText(strings.Join(v.Lines(), "\n")))
}

// Render draws the highlighted lines, clipped to the bounds.
func (v *CodeView) Render(ctx runtime.RenderContext) {
	renderSpans(ctx.Buffer, v.bounds, v.lines)
}

func renderSpans(buf *runtime.Buffer, bounds runtime.Rect, lines [][]span) {
	if buf == nil {
		return
	}
	right := bounds.X + bounds.Width
	for i, line := range lines {
		if i >= bounds.Height {
			return
		}
		x := bounds.X
		for _, s := range line {
			if x >= right {
				break
			}
			text := clip(s.text, right-x)
			x += buf.SetString(x, bounds.Y+i, text, s.style)
		}
	}
}
