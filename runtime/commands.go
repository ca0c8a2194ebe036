package runtime

import "context"

// Command is an intent a widget returns from HandleMessage. The screen
// applies layer commands; the app applies the rest.
type Command interface {
	Command()
}

// PostFunc delivers a message to the app loop and reports whether it was
// queued. Effects receive one.
type PostFunc func(Message) bool

type (
	// Quit stops the app loop.
	Quit struct{}

	// Refresh redraws every cell on the next frame.
	Refresh struct{}

	// Bell rings the terminal bell.
	Bell struct{}

	// SendMsg re-enters Message into the loop.
	SendMsg struct {
		Message Message
	}

	// Effect is background work started on the app task context. It ends
	// when that context does.
	Effect struct {
		Run func(ctx context.Context, post PostFunc)
	}

	// PushOverlay shows Widget as a new layer. A modal layer keeps input
	// from the layers under it.
	PushOverlay struct {
		Widget Widget
		Modal  bool
	}

	// PopOverlay removes the top layer.
	PopOverlay struct{}
)

func (Quit) Command()        {}
func (Refresh) Command()     {}
func (Bell) Command()        {}
func (SendMsg) Command()     {}
func (Effect) Command()      {}
func (PushOverlay) Command() {}
func (PopOverlay) Command()  {}

// Send returns a command that posts msg.
func Send(msg Message) Command {
	return SendMsg{Message: msg}
}
