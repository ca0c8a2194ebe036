package runtime

import (
	"time"

	"github.com/odvcencio/furry-store/terminal"
)

// Message is anything the loop can process. Input, timers, effects, and
// store wake-ups all arrive as messages.
type Message interface {
	isMessage()
}

type (
	// KeyMsg is a key press.
	KeyMsg struct {
		Key   terminal.Key
		Rune  rune
		Alt   bool
		Ctrl  bool
		Shift bool
	}

	// ResizeMsg carries the new terminal size.
	ResizeMsg struct {
		Width, Height int
	}

	// TickMsg is posted every AppConfig.TickRate.
	TickMsg struct {
		Time time.Time
	}

	// QueueFlushMsg wakes the loop to run parked store callbacks.
	QueueFlushMsg struct{}

	// InvalidateMsg asks for a frame.
	InvalidateMsg struct{}

	// CustomMsg carries an application payload; receivers match on Name.
	CustomMsg struct {
		Name    string
		Payload any
	}
)

func (KeyMsg) isMessage()        {}
func (ResizeMsg) isMessage()     {}
func (TickMsg) isMessage()       {}
func (QueueFlushMsg) isMessage() {}
func (InvalidateMsg) isMessage() {}
func (CustomMsg) isMessage()     {}

// Is reports whether m is the printable rune r.
func (m KeyMsg) Is(r rune) bool {
	return m.Key == terminal.KeyRune && m.Rune == r
}
