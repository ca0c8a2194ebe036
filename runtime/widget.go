package runtime

// Widget is a node of the UI tree.
type Widget interface {
	Measure(constraints Constraints) Size
	Layout(bounds Rect)
	Render(ctx RenderContext)
	HandleMessage(msg Message) HandleResult
}

// ChildProvider exposes a widget's children for tree walks.
type ChildProvider interface {
	ChildWidgets() []Widget
}

// BoundsProvider reports the bounds assigned at layout.
type BoundsProvider interface {
	Bounds() Rect
}

// HandleResult reports whether a message was consumed and which commands
// the widget emitted.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled marks a message as consumed.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled lets a message continue to other widgets or layers.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand consumes the message and emits cmds.
func WithCommand(cmds ...Command) HandleResult {
	return HandleResult{Handled: true, Commands: cmds}
}
