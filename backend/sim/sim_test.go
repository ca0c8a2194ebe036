package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/terminal"
)

func TestBackend_TextAfterShow(t *testing.T) {
	b := New(5, 2)
	b.SetContent(0, 0, 'h', nil, backend.DefaultStyle())
	b.SetContent(1, 0, 'i', nil, backend.DefaultStyle())
	if strings.TrimSpace(b.Text()) != "" {
		t.Fatalf("expected nothing visible before Show, got %q", b.Text())
	}
	b.Show()
	if got := b.Text(); got != "hi\n\n" {
		t.Fatalf("unexpected text %q", got)
	}
	if b.Shows() != 1 {
		t.Fatalf("expected 1 show, got %d", b.Shows())
	}
}

func TestBackend_SetRow(t *testing.T) {
	b := New(4, 1)
	style := backend.DefaultStyle()
	b.SetRow(0, 1, []backend.Cell{{Rune: 'a', Style: style}, {Rune: 'b', Style: style}, {Rune: 'c', Style: style}, {Rune: 'd', Style: style}})
	b.Show()
	if got := b.Text(); got != " abc\n" {
		t.Fatalf("expected clipped row, got %q", got)
	}
}

func TestBackend_EventsAndFini(t *testing.T) {
	b := New(10, 3)
	if err := b.InjectKey('q'); err != nil {
		t.Fatalf("inject failed: %v", err)
	}
	ev, ok := b.PollEvent().(terminal.KeyEvent)
	if !ok || ev.Rune != 'q' || ev.Key != terminal.KeyRune {
		t.Fatalf("unexpected event %#v", ev)
	}

	b.Fini()
	b.Fini()
	if ev := b.PollEvent(); ev != nil {
		t.Fatalf("expected nil after fini, got %#v", ev)
	}
	if err := b.InjectKeyCode(terminal.KeyEnter); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestBackend_Resize(t *testing.T) {
	b := New(10, 3)
	if err := b.Resize(20, 4); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if w, h := b.Size(); w != 20 || h != 4 {
		t.Fatalf("expected 20x4, got %dx%d", w, h)
	}
	ev, ok := b.PollEvent().(terminal.ResizeEvent)
	if !ok || ev.Width != 20 || ev.Height != 4 {
		t.Fatalf("unexpected resize event %#v", ev)
	}
}
