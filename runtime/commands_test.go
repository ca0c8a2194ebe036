package runtime

import (
	"testing"

	"github.com/odvcencio/furry-store/backend/sim"
)

func TestSend(t *testing.T) {
	msg := ResizeMsg{Width: 10, Height: 5}
	cmd := Send(msg)
	sendMsg, ok := cmd.(SendMsg)
	if !ok {
		t.Fatalf("expected Send to return SendMsg, got %T", cmd)
	}
	if sendMsg.Message != msg {
		t.Fatalf("SendMsg.Message mismatch")
	}
}

func TestWithCommand(t *testing.T) {
	result := WithCommand(Quit{}, Refresh{})
	if !result.Handled {
		t.Fatalf("expected WithCommand to mark handled")
	}
	if len(result.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(result.Commands))
	}
	if Unhandled().Handled {
		t.Fatalf("expected Unhandled to be unhandled")
	}
}

func TestBellRingsBackend(t *testing.T) {
	be := sim.New(4, 1)
	app := NewApp(AppConfig{Backend: be})
	if app.ExecuteCommand(Bell{}) {
		t.Fatalf("expected bell not to request a render")
	}
	if be.Beeps() != 1 {
		t.Fatalf("expected one beep, got %d", be.Beeps())
	}
	if NewApp(AppConfig{}).ExecuteCommand(Bell{}) {
		t.Fatalf("expected bell without backend to be ignored")
	}
}
