package widgets

import (
	"strings"
	"testing"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/terminal"
)

func renderWidget(w runtime.Widget, width, height int) []string {
	buf := runtime.NewBuffer(width, height)
	bounds := runtime.Rect{Width: width, Height: height}
	w.Layout(bounds)
	w.Render(runtime.RenderContext{Buffer: buf, Bounds: bounds})
	lines := buf.Text()
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return lines
}

func TestVStack_LayoutAndRender(t *testing.T) {
	stack := NewVStack(NewLabel("one"), NewLabel("two\nlines"), NewLabel("end"))
	lines := renderWidget(stack, 10, 5)
	want := []string{"one", "two", "lines", "end", ""}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
	if got := stack.Measure(runtime.Constraints{}); got.Width != 5 || got.Height != 4 {
		t.Fatalf("expected 5x4, got %+v", got)
	}
}

func TestLabel_AlignmentAndTruncate(t *testing.T) {
	lines := renderWidget(NewLabel("ab").SetAlignment(AlignRight), 5, 1)
	if lines[0] != "   ab" {
		t.Fatalf("expected right aligned, got %q", lines[0])
	}
	lines = renderWidget(NewLabel("abcdefgh"), 6, 1)
	if lines[0] != "abc..." {
		t.Fatalf("expected truncated, got %q", lines[0])
	}
}

func TestCodeView_HighlightsJSON(t *testing.T) {
	view := NewCodeView("json", "monokai")
	code := "{\n  \"count\": 3\n}"
	view.SetCode(code)

	if got := strings.Join(view.Lines(), "\n"); got != code {
		t.Fatalf("expected lines to round-trip source, got %q", got)
	}
	colored := false
	for _, line := range view.lines {
		for _, s := range line {
			if s.style.FG.IsRGB() {
				colored = true
			}
		}
	}
	if !colored {
		t.Fatalf("expected at least one highlighted token")
	}

	lines := renderWidget(view, 20, 3)
	if lines[1] != "  \"count\": 3" {
		t.Fatalf("unexpected rendered row %q", lines[1])
	}
}

func TestCodeView_UnknownLanguage(t *testing.T) {
	view := NewCodeView("no-such-language", "no-such-style")
	view.SetCode("plain text")
	if got := view.Lines(); len(got) != 1 || got[0] != "plain text" {
		t.Fatalf("expected plain fallback, got %v", got)
	}
}

func TestMarkdown_Blocks(t *testing.T) {
	md := NewMarkdown("# Help\n\nPress **q** to quit.\n\n- one\n- two\n\n1. first\n2. second\n")
	want := []string{
		"Help",
		"",
		"Press q to quit.",
		"",
		"• one",
		"• two",
		"",
		"1. first",
		"2. second",
	}
	got := md.Lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	strong := false
	for _, s := range md.lines[2] {
		if s.text == "q" && s.style.Has(backend.AttrBold) {
			strong = true
		}
	}
	if !strong {
		t.Fatalf("expected bold span for strong text")
	}
}

func TestOverlay_RenderAndDismiss(t *testing.T) {
	overlay := NewOverlay("Help", NewLabel("hi"))
	lines := renderWidget(overlay, 12, 5)
	if !strings.Contains(lines[1], "┌─ Help ─┐") {
		t.Fatalf("expected titled frame, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "│ hi") {
		t.Fatalf("expected child inside frame, got %q", lines[2])
	}

	result := overlay.HandleMessage(runtime.KeyMsg{Key: terminal.KeyEscape})
	if !result.Handled || len(result.Commands) != 1 {
		t.Fatalf("expected esc to emit one command, got %+v", result)
	}
	if _, ok := result.Commands[0].(runtime.PopOverlay); !ok {
		t.Fatalf("expected PopOverlay, got %T", result.Commands[0])
	}
}
