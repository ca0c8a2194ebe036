// Package backend abstracts the terminal surface the runtime draws to.
package backend

import "github.com/odvcencio/furry-store/terminal"

// Backend is a terminal surface with an input event source.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	SetContent(x, y int, mainc rune, combc []rune, style Style)
	Show()
	HideCursor()
	// PollEvent blocks for the next event. It returns nil once Fini is called.
	PollEvent() terminal.Event
	PostEvent(ev terminal.Event) error
	Beep() error
}

// Cell is a single character cell.
type Cell struct {
	Rune  rune
	Style Style
}

// RowWriter is implemented by backends that accept a whole row at once.
// The app uses it when most of the frame changed.
type RowWriter interface {
	SetRow(y int, startX int, cells []Cell)
}
