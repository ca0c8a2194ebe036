// Package tcell adapts github.com/gdamore/tcell/v2 to backend.Backend.
package tcell

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/terminal"
)

// Backend draws to a real terminal through tcell.
type Backend struct {
	screen tcell.Screen
}

// New creates a backend on the controlling terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create tcell screen: %w", err)
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing tcell screen, e.g. a simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init implements backend.Backend.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("init tcell screen: %w", err)
	}
	b.screen.SetStyle(tcell.StyleDefault)
	b.screen.Clear()
	return nil
}

// Fini implements backend.Backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size implements backend.Backend.
func (b *Backend) Size() (int, int) {
	return b.screen.Size()
}

// SetContent implements backend.Backend.
func (b *Backend) SetContent(x, y int, mainc rune, combc []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, combc, convertStyle(style))
}

// SetRow implements backend.RowWriter.
func (b *Backend) SetRow(y int, startX int, cells []backend.Cell) {
	for i, cell := range cells {
		b.screen.SetContent(startX+i, y, cell.Rune, nil, convertStyle(cell.Style))
	}
}

// Show implements backend.Backend.
func (b *Backend) Show() {
	b.screen.Show()
}

// HideCursor implements backend.Backend.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// Beep implements backend.Backend.
func (b *Backend) Beep() error {
	return b.screen.Beep()
}

// PollEvent converts the next tcell event. Events without a terminal
// equivalent are skipped. Returns nil once the screen is finalized.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if converted := convertEvent(ev); converted != nil {
			return converted
		}
	}
}

// PostEvent injects a terminal event into the tcell queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	return b.screen.PostEvent(tcell.NewEventInterrupt(ev))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return convertKey(e)
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventInterrupt:
		if inner, ok := e.Data().(terminal.Event); ok {
			return inner
		}
	}
	return nil
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
}

func convertKey(ev *tcell.EventKey) terminal.KeyEvent {
	mods := ev.Modifiers()
	out := terminal.KeyEvent{
		Key:   terminal.KeyNone,
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}
	if key, ok := keyMap[ev.Key()]; ok {
		out.Key = key
	}
	if out.Key == terminal.KeyRune {
		out.Rune = ev.Rune()
	}
	return out
}

func convertColor(c backend.Color) tcell.Color {
	switch {
	case c == backend.ColorDefault:
		return tcell.ColorDefault
	case c.IsRGB():
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	default:
		return tcell.PaletteColor(int(c))
	}
}

func convertStyle(s backend.Style) tcell.Style {
	return tcell.StyleDefault.
		Foreground(convertColor(s.FG)).
		Background(convertColor(s.BG)).
		Bold(s.Has(backend.AttrBold)).
		Dim(s.Has(backend.AttrDim)).
		Italic(s.Has(backend.AttrItalic)).
		Underline(s.Has(backend.AttrUnderline)).
		Reverse(s.Has(backend.AttrReverse))
}

var (
	_ backend.Backend   = (*Backend)(nil)
	_ backend.RowWriter = (*Backend)(nil)
)
