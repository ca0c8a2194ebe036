package counter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/runtime"
	"github.com/odvcencio/furry-store/state"
	"github.com/odvcencio/furry-store/widgets"
)

// statusTTL is how long the inspector's copy status stays visible.
const statusTTL = 2 * time.Second

const statusClearMsg = "counter.inspector.clear"

func countOf(s State) int { return s.Count }

func stepOf(s State) int { return s.Step }

// Counter shows the count and changes it with + and -.
type Counter struct {
	widgets.Component
	store *state.Store[State]
	count int
	step  int
	line  *widgets.Label
}

// NewCounter creates the counter component.
func NewCounter() *Counter {
	return &Counter{line: widgets.NewLabel("")}
}

// Bind resolves the store and selects the count and step.
func (c *Counter) Bind(services runtime.Services) error {
	if err := c.Component.Bind(services); err != nil {
		return err
	}
	store, err := widgets.UseStore(&c.Component, Scope)
	if err != nil {
		return err
	}
	c.store = store
	count, err := widgets.Use(&c.Component, Scope, countOf, c.setCount)
	if err != nil {
		return err
	}
	step, err := widgets.Use(&c.Component, Scope, stepOf, c.setStep)
	if err != nil {
		return err
	}
	c.count, c.step = count.Get(), step.Get()
	c.refresh()
	return nil
}

func (c *Counter) setCount(v int) {
	c.count = v
	c.refresh()
}

func (c *Counter) setStep(v int) {
	c.step = v
	c.refresh()
}

func (c *Counter) refresh() {
	c.line.SetText(fmt.Sprintf("Count: %d   [-] [+] step %d", c.count, c.step))
}

// Measure returns one row.
func (c *Counter) Measure(constraints runtime.Constraints) runtime.Size {
	return c.line.Measure(constraints)
}

// Layout places the line.
func (c *Counter) Layout(bounds runtime.Rect) {
	c.Component.Layout(bounds)
	c.line.Layout(bounds)
}

// Render draws the line.
func (c *Counter) Render(ctx runtime.RenderContext) {
	c.line.Render(ctx)
}

// HandleMessage applies Increment on + and Decrement on -.
func (c *Counter) HandleMessage(msg runtime.Message) runtime.HandleResult {
	key, ok := msg.(runtime.KeyMsg)
	if !ok || c.store == nil {
		return runtime.Unhandled()
	}
	switch {
	case key.Is('+'), key.Is('='):
		c.store.Update(Increment)
	case key.Is('-'), key.Is('_'):
		c.store.Update(Decrement)
	default:
		return runtime.Unhandled()
	}
	return runtime.Handled()
}

// Child shows the parity of the count and hosts a Grandchild.
type Child struct {
	widgets.Component
	parity     string
	line       *widgets.Label
	grandchild *Grandchild
}

// NewChild creates the child component.
func NewChild() *Child {
	return &Child{line: widgets.NewLabel(""), grandchild: NewGrandchild()}
}

// Bind selects the parity.
func (c *Child) Bind(services runtime.Services) error {
	if err := c.Component.Bind(services); err != nil {
		return err
	}
	parity, err := widgets.Use(&c.Component, Scope, Parity, c.setParity)
	if err != nil {
		return err
	}
	parity.SetEqualFunc(state.EqualComparable[string])
	c.setParity(parity.Get())
	return nil
}

func (c *Child) setParity(p string) {
	c.parity = p
	c.line.SetText("Child: the count is " + p)
}

// ChildWidgets implements runtime.ChildProvider.
func (c *Child) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{c.grandchild}
}

// Measure returns the child row plus the grandchild.
func (c *Child) Measure(constraints runtime.Constraints) runtime.Size {
	return runtime.Size{Width: constraints.MaxWidth, Height: 2}
}

// Layout indents the grandchild below the child's own row.
func (c *Child) Layout(bounds runtime.Rect) {
	c.Component.Layout(bounds)
	c.line.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: min(bounds.Height, 1)})
	c.grandchild.Layout(runtime.Rect{X: bounds.X + 2, Y: bounds.Y + 1, Width: max(bounds.Width-2, 0), Height: max(bounds.Height-1, 0)})
}

// Render draws the row and the grandchild.
func (c *Child) Render(ctx runtime.RenderContext) {
	c.line.Render(ctx)
	c.grandchild.Render(ctx)
}

// HandleMessage forwards to the grandchild.
func (c *Child) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return c.grandchild.HandleMessage(msg)
}

// Grandchild shows the count two levels down and resets it with r.
type Grandchild struct {
	widgets.Component
	store *state.Store[State]
	line  *widgets.Label
}

// NewGrandchild creates the grandchild component.
func NewGrandchild() *Grandchild {
	return &Grandchild{line: widgets.NewLabel("")}
}

// Bind resolves the store and selects the count.
func (g *Grandchild) Bind(services runtime.Services) error {
	if err := g.Component.Bind(services); err != nil {
		return err
	}
	store, err := widgets.UseStore(&g.Component, Scope)
	if err != nil {
		return err
	}
	g.store = store
	count, err := widgets.Use(&g.Component, Scope, countOf, g.setCount)
	if err != nil {
		return err
	}
	g.setCount(count.Get())
	return nil
}

func (g *Grandchild) setCount(v int) {
	g.line.SetText(fmt.Sprintf("Grandchild: %d   [r]eset", v))
}

// Measure returns one row.
func (g *Grandchild) Measure(constraints runtime.Constraints) runtime.Size {
	return g.line.Measure(constraints)
}

// Layout places the line.
func (g *Grandchild) Layout(bounds runtime.Rect) {
	g.Component.Layout(bounds)
	g.line.Layout(bounds)
}

// Render draws the line.
func (g *Grandchild) Render(ctx runtime.RenderContext) {
	g.line.Render(ctx)
}

// HandleMessage resets the count on r.
func (g *Grandchild) HandleMessage(msg runtime.Message) runtime.HandleResult {
	key, ok := msg.(runtime.KeyMsg)
	if !ok || !key.Is('r') || g.store == nil {
		return runtime.Unhandled()
	}
	g.store.Update(Reset)
	return runtime.Handled()
}

// Inspector shows the whole state as highlighted JSON. y copies it.
type Inspector struct {
	widgets.Component
	title  *widgets.Label
	code   *widgets.CodeView
	status *widgets.Label
	json   string
	seq    int
}

// NewInspector creates an inspector highlighting with the chroma style theme.
func NewInspector(theme string) *Inspector {
	dim := backend.DefaultStyle().Dim(true)
	return &Inspector{
		title:  widgets.NewLabel("State").SetStyle(backend.DefaultStyle().Bold(true)),
		code:   widgets.NewCodeView("json", theme),
		status: widgets.NewLabel("").SetStyle(dim),
	}
}

// JSON returns the displayed state document.
func (i *Inspector) JSON() string {
	return i.json
}

// Status returns the transient status line.
func (i *Inspector) Status() string {
	return i.status.Text()
}

// Bind selects the whole state.
func (i *Inspector) Bind(services runtime.Services) error {
	if err := i.Component.Bind(services); err != nil {
		return err
	}
	all, err := widgets.Use(&i.Component, Scope, state.Identity[State], i.setState)
	if err != nil {
		return err
	}
	i.setState(all.Get())
	return nil
}

func (i *Inspector) setState(s State) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		i.json = err.Error()
	} else {
		i.json = string(data)
	}
	i.code.SetCode(i.json)
}

// Measure returns the title, document, and status rows.
func (i *Inspector) Measure(constraints runtime.Constraints) runtime.Size {
	code := i.code.Measure(runtime.Constraints{MaxWidth: constraints.MaxWidth})
	return runtime.Size{Width: constraints.MaxWidth, Height: code.Height + 2}
}

// Layout stacks the title, document, and status.
func (i *Inspector) Layout(bounds runtime.Rect) {
	i.Component.Layout(bounds)
	codeHeight := i.code.Measure(runtime.Constraints{MaxWidth: bounds.Width}).Height
	i.title.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: 1})
	i.code.Layout(runtime.Rect{X: bounds.X + 2, Y: bounds.Y + 1, Width: max(bounds.Width-2, 0), Height: codeHeight})
	i.status.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + 1 + codeHeight, Width: bounds.Width, Height: 1})
}

// Render draws the inspector.
func (i *Inspector) Render(ctx runtime.RenderContext) {
	i.title.Render(ctx)
	i.code.Render(ctx)
	i.status.Render(ctx)
}

// HandleMessage copies on y and clears the status when its timer fires.
func (i *Inspector) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.KeyMsg:
		if !m.Is('y') {
			return runtime.Unhandled()
		}
		if !i.copy() {
			return runtime.WithCommand(runtime.Bell{})
		}
		return runtime.Handled()
	case runtime.CustomMsg:
		if m.Name != statusClearMsg {
			return runtime.Unhandled()
		}
		if seq, ok := m.Payload.(int); ok && seq == i.seq {
			i.status.SetText("")
		}
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

// copy writes the state document to the clipboard and reports success.
func (i *Inspector) copy() bool {
	ok := false
	cb := i.Services.Clipboard()
	if !cb.Available() {
		i.status.SetText("clipboard unavailable")
	} else if err := cb.Write(i.json); err != nil {
		i.Services.Logger().Warn("clipboard write failed", "error", err)
		i.status.SetText("copy failed: " + err.Error())
	} else {
		i.status.SetText("copied state to clipboard")
		ok = true
	}
	i.seq++
	i.Services.After(statusTTL, runtime.CustomMsg{Name: statusClearMsg, Payload: i.seq})
	return ok
}
