package counter

import (
	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
	"github.com/odvcencio/furry-store/widgets"
)

const helpText = `# Keys

- **+** / **-** change the count by the step
- **r** resets the count (handled two levels down)
- **y** copies the state as JSON
- **?** shows this help, **esc** closes it
- **q** quits

Every component reads the same store through ` + "`counter.Scope`" + `.
Editing the config file changes the step while running.
`

const footerText = "+/- change  r reset  y copy  ? help  q quit"

// Root is the top of the counter widget tree. It provides the store to
// everything below it and handles the global keys.
type Root struct {
	*widgets.Provider[State]
	inspector *Inspector
	help      *widgets.Overlay
}

// RootOption configures NewRoot.
type RootOption func(*rootOptions)

type rootOptions struct {
	theme string
}

// WithTheme sets the chroma style used by the inspector.
func WithTheme(theme string) RootOption {
	return func(o *rootOptions) {
		if theme != "" {
			o.theme = theme
		}
	}
}

// NewRoot builds the application tree over store.
func NewRoot(store *state.Store[State], opts ...RootOption) *Root {
	o := rootOptions{theme: DefaultConfig().Theme}
	for _, opt := range opts {
		opt(&o)
	}

	title := widgets.NewLabel("furry-store counter").SetStyle(backend.DefaultStyle().Bold(true))
	footer := widgets.NewLabel(footerText).SetStyle(backend.DefaultStyle().Dim(true))
	inspector := NewInspector(o.theme)
	body := widgets.NewVStack(
		title,
		NewCounter(),
		NewChild(),
		inspector,
		footer,
	).SetGap(1)

	return &Root{
		Provider:  widgets.NewProvider(Scope, store, body),
		inspector: inspector,
		help:      widgets.NewOverlay("Help", widgets.NewMarkdown(helpText)),
	}
}

// Inspector returns the state inspector.
func (r *Root) Inspector() *Inspector {
	return r.inspector
}

// HandleMessage lets components handle input first, then applies ? and q.
func (r *Root) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if result := r.Provider.HandleMessage(msg); result.Handled {
		return result
	}
	key, ok := msg.(runtime.KeyMsg)
	if !ok {
		return runtime.Unhandled()
	}
	switch {
	case key.Is('?'):
		return runtime.WithCommand(r.help.Push())
	case key.Is('q'):
		return runtime.WithCommand(runtime.Quit{})
	}
	return runtime.Unhandled()
}
