// Package terminal defines backend-neutral input events.
package terminal

// Key identifies a non-printable key, or KeyRune for printable input.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyCtrlC
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyCtrlC:     "ctrl+c",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is produced by a backend's PollEvent.
type Event interface {
	isEvent()
}

// KeyEvent is a keyboard press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (KeyEvent) isEvent() {}

// ResizeEvent reports new terminal dimensions.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) isEvent() {}
