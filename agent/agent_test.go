package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/backend/sim"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/terminal"
)

type echoWidget struct {
	bounds  runtime.Rect
	value   string
	bindErr error
}

func (e *echoWidget) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.Constrain(runtime.Size{Width: 12, Height: 1})
}

func (e *echoWidget) Layout(bounds runtime.Rect) {
	e.bounds = bounds
}

func (e *echoWidget) Render(ctx runtime.RenderContext) {
	ctx.Buffer.SetString(e.bounds.X, e.bounds.Y, "> "+e.value, backend.DefaultStyle())
}

func (e *echoWidget) HandleMessage(msg runtime.Message) runtime.HandleResult {
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return runtime.Unhandled()
	}
	switch {
	case key.Key == terminal.KeyBackspace:
		if len(e.value) > 0 {
			e.value = e.value[:len(e.value)-1]
		}
		return runtime.Handled()
	case key.Is('!'):
		return runtime.WithCommand(runtime.Quit{})
	case key.Key == terminal.KeyRune:
		e.value += string(key.Rune)
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

func (e *echoWidget) Bind(runtime.Services) error { return e.bindErr }

func newAgent(root runtime.Widget) *Agent {
	be := sim.New(30, 3)
	app := runtime.NewApp(runtime.AppConfig{Backend: be, Root: root})
	return New(Config{App: app, Sim: be})
}

func TestAgent_PressAndWait(t *testing.T) {
	a := newAgent(&echoWidget{})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()

	if err := a.Press("hey"); err != nil {
		t.Fatalf("press: %v", err)
	}
	if err := a.WaitForText("> hey"); err != nil {
		t.Fatalf("expected typed text, got %q: %v", a.Text(), err)
	}
	if err := a.PressKey(terminal.KeyBackspace); err != nil {
		t.Fatalf("press: %v", err)
	}
	if err := a.WaitForNoText("> hey"); err != nil {
		t.Fatalf("expected backspace applied: %v", err)
	}
	if !a.ContainsText("> he") {
		t.Fatalf("expected remaining text, got %q", a.Text())
	}
}

func TestAgent_QuitAndWait(t *testing.T) {
	a := newAgent(&echoWidget{})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := a.Press("!"); err != nil {
		t.Fatalf("press: %v", err)
	}
	if err := a.Wait(); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
	if err := a.Stop(); err != nil {
		t.Fatalf("expected stop after exit to succeed, got %v", err)
	}
}

func TestAgent_StartReportsBindError(t *testing.T) {
	cause := errors.New("no store")
	a := newAgent(&echoWidget{bindErr: cause})
	err := a.Start(context.Background())
	if !errors.Is(err, cause) {
		t.Fatalf("expected bind error from start, got %v", err)
	}
}

func TestAgent_StartTwice(t *testing.T) {
	a := newAgent(&echoWidget{})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()
	if err := a.Start(context.Background()); !errors.Is(err, ErrRunning) {
		t.Fatalf("expected ErrRunning, got %v", err)
	}
}

func TestAgent_NoApp(t *testing.T) {
	a := New(Config{})
	if err := a.Start(context.Background()); !errors.Is(err, ErrNoApp) {
		t.Fatalf("expected ErrNoApp, got %v", err)
	}
}

func TestAgent_Snapshot(t *testing.T) {
	a := newAgent(&echoWidget{value: "snap"})
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()

	snap := a.Snapshot()
	if snap.Width != 30 || snap.Height != 3 || snap.Frames < 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !strings.HasPrefix(snap.Text, "> snap") {
		t.Fatalf("expected frame text, got %q", snap.Text)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"frames":`) {
		t.Fatalf("expected json field names, got %s", data)
	}
}
