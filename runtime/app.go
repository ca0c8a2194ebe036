// Package runtime runs a widget tree against a terminal backend.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/odvcencio/furry-store/backend"
	"github.com/odvcencio/furry-store/clipboard"
	"github.com/odvcencio/furry-store/state"
	"github.com/odvcencio/furry-store/terminal"
)

// UpdateFunc handles one message and reports whether the frame is stale.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler receives commands the app does not handle itself.
// It reports whether the frame is stale.
type CommandHandler func(cmd Command) bool

// RenderStats describes one frame.
type RenderStats struct {
	Frame          int64
	Started        time.Time
	RenderDuration time.Duration
	FlushDuration  time.Duration
	DirtyCells     int
	TotalCells     int
	FullRedraw     bool
	LayerCount     int
}

// RenderObserver is told about every frame after it is shown.
type RenderObserver interface {
	ObserveRender(stats RenderStats)
}

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Update         UpdateFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
	StateQueue     *state.Queue
	FlushPolicy    QueueFlushPolicy
	Clipboard      clipboard.Clipboard
	RenderObserver RenderObserver
	// Context is the base scope every widget binds under.
	Context context.Context
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// App owns the event loop: it turns backend events and posted messages into
// updates, flushes queued store callbacks, and draws a frame when something
// changed. All widget code runs on the loop goroutine.
type App struct {
	backend     backend.Backend
	screen      *Screen
	root        Widget
	update      UpdateFunc
	onCommand   CommandHandler
	inbox       chan Message
	tick        time.Duration
	queue       *state.Queue
	queueSched  *QueueScheduler
	policy      QueueFlushPolicy
	invalidator *Invalidator
	clipboard   clipboard.Clipboard
	observer    RenderObserver
	baseCtx     context.Context
	logger      *slog.Logger
	tasks       taskGroup

	running bool
	dirty   bool
	frames  int64
}

// NewApp creates an App from cfg.
func NewApp(cfg AppConfig) *App {
	a := &App{
		backend:   cfg.Backend,
		root:      cfg.Root,
		update:    cfg.Update,
		onCommand: cfg.CommandHandler,
		inbox:     make(chan Message, orDefault(cfg.MessageBuffer, 128)),
		tick:      cfg.TickRate,
		queue:     cfg.StateQueue,
		policy:    cfg.FlushPolicy,
		clipboard: cfg.Clipboard,
		observer:  cfg.RenderObserver,
		baseCtx:   cfg.Context,
		logger:    cfg.Logger,
	}
	if a.update == nil {
		a.update = DefaultUpdate
	}
	if a.queue == nil {
		a.queue = state.NewQueue()
	}
	if a.baseCtx == nil {
		a.baseCtx = context.Background()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.queueSched = NewQueueScheduler(a.queue, a.tryPost)
	a.invalidator = NewInvalidator(a.tryPost)
	return a
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// Screen returns the active screen once Run has started.
func (a *App) Screen() *Screen {
	return a.screen
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// StateQueue returns the queue store callbacks wait in.
func (a *App) StateQueue() *state.Queue {
	if a == nil {
		return nil
	}
	return a.queue
}

// StateScheduler returns the scheduler that moves store callbacks onto the
// loop goroutine.
func (a *App) StateScheduler() state.Scheduler {
	if a == nil || a.queueSched == nil {
		return nil
	}
	return a.queueSched
}

// InvalidateScheduler returns a scheduler that runs callbacks and then
// requests a frame.
func (a *App) InvalidateScheduler() state.Scheduler {
	if a == nil || a.invalidator == nil {
		return nil
	}
	return a.invalidator
}

// Invalidate requests a frame.
func (a *App) Invalidate() {
	if a == nil || a.invalidator == nil {
		return
	}
	a.invalidator.Invalidate()
}

// Spawn starts effect on the task context. Effects spawned before Run wait
// for it to start.
func (a *App) Spawn(effect Effect) {
	if a == nil || effect.Run == nil {
		return
	}
	a.tasks.spawn(effect, a.tryPost)
}

// After posts msg once delay has passed.
func (a *App) After(delay time.Duration, msg Message) {
	a.Spawn(After(delay, msg))
}

// Every posts fn's message each interval.
func (a *App) Every(interval time.Duration, fn func(time.Time) Message) {
	a.Spawn(Every(interval, fn))
}

// SetRoot replaces the root widget. While running the new tree is bound at
// once and bind errors are returned.
func (a *App) SetRoot(root Widget) error {
	a.root = root
	if a.screen == nil {
		return nil
	}
	a.dirty = true
	return a.screen.SetRoot(root)
}

// Post queues msg for the loop, dropping it if the inbox is full.
func (a *App) Post(msg Message) {
	if !a.tryPost(msg) {
		a.logger.Debug("message dropped", "type", fmt.Sprintf("%T", msg))
	}
}

// TryPost queues msg and reports whether there was room.
func (a *App) TryPost(msg Message) bool {
	return a.tryPost(msg)
}

func (a *App) tryPost(msg Message) bool {
	if a == nil || a.inbox == nil {
		return false
	}
	select {
	case a.inbox <- msg:
		return true
	default:
		return false
	}
}

// Run binds the root, draws the first frame, and processes messages until
// a Quit command or ctx ends. A root that fails to bind stops Run before
// anything is drawn. Ending through ctx returns ctx.Err().
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("runtime: backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	if err := a.attach(); err != nil {
		a.logger.Error("bind root", "error", err)
		return fmt.Errorf("bind root: %w", err)
	}
	defer a.screen.Close()

	a.tasks.start(ctx, a.tryPost)
	defer a.tasks.stop()
	go a.forwardEvents()

	a.draw()
	err := a.loop(ctx)
	a.logger.Info("app stopped", "frames", a.frames)
	return err
}

func (a *App) attach() error {
	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.screen = NewScreen(w, h)
	a.screen.SetServices(a.Services())
	if a.root != nil {
		if err := a.screen.SetRoot(a.root); err != nil {
			return err
		}
	}
	a.logger.Info("app started", "width", w, "height", h, "flush_policy", a.policy.String())
	return nil
}

func (a *App) loop(ctx context.Context) error {
	var ticks <-chan time.Time
	if a.tick > 0 {
		ticker := time.NewTicker(a.tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	a.running = true
	for a.running {
		select {
		case <-ctx.Done():
			a.running = false
			return ctx.Err()
		case msg := <-a.inbox:
			a.step(msg)
		case now := <-ticks:
			a.step(TickMsg{Time: now})
		}
	}
	return nil
}

// step applies one message, flushes queued store callbacks, and draws if
// anything changed.
func (a *App) step(msg Message) {
	if a.update(a, msg) {
		a.dirty = true
	}
	if !a.running {
		return
	}
	if a.policy.flushes(msg) {
		a.queueSched.resetPending()
		if a.queue.Flush() > 0 {
			a.dirty = true
		}
	}
	if _, ok := msg.(InvalidateMsg); ok {
		a.invalidator.resetPending()
	}
	if a.dirty {
		a.draw()
	}
}

// DefaultUpdate resizes on ResizeMsg, quits on ctrl+c, and routes
// everything else through the screen's layers.
func DefaultUpdate(app *App, msg Message) bool {
	if app == nil || app.screen == nil {
		return false
	}
	switch m := msg.(type) {
	case ResizeMsg:
		app.screen.Resize(m.Width, m.Height)
		return true
	case InvalidateMsg:
		return true
	case QueueFlushMsg:
		return false
	case KeyMsg:
		if m.Key == terminal.KeyCtrlC {
			return app.handleCommand(Quit{})
		}
	}
	return app.dispatch(msg)
}

func (a *App) dispatch(msg Message) bool {
	result := a.screen.HandleMessage(msg)
	stale := result.Handled
	for _, cmd := range result.Commands {
		stale = a.handleCommand(cmd) || stale
	}
	return stale
}

// ExecuteCommand applies cmd as if a widget had returned it.
func (a *App) ExecuteCommand(cmd Command) bool {
	if a == nil {
		return false
	}
	return a.handleCommand(cmd)
}

func (a *App) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		a.running = false
		return false
	case Refresh:
		if a.screen != nil {
			a.screen.Buffer().MarkAllDirty()
		}
		return true
	case Bell:
		if a.backend == nil {
			return false
		}
		if err := a.backend.Beep(); err != nil {
			a.logger.Debug("bell", "error", err)
		}
		return false
	case SendMsg:
		if c.Message != nil {
			a.Post(c.Message)
		}
		return false
	case Effect:
		a.Spawn(c)
		return false
	case PushOverlay, PopOverlay:
		// The screen applied these while dispatching.
		return true
	}
	if a.onCommand != nil {
		return a.onCommand(cmd)
	}
	return false
}

// forwardEvents turns backend events into messages until the backend is
// finalized.
func (a *App) forwardEvents() {
	for ev := a.backend.PollEvent(); ev != nil; ev = a.backend.PollEvent() {
		if msg := eventMessage(ev); msg != nil {
			a.Post(msg)
		}
	}
}

func eventMessage(ev terminal.Event) Message {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		return KeyMsg{Key: e.Key, Rune: e.Rune, Alt: e.Alt, Ctrl: e.Ctrl, Shift: e.Shift}
	case terminal.ResizeEvent:
		return ResizeMsg{Width: e.Width, Height: e.Height}
	}
	return nil
}

// draw renders every layer, flushes changed cells, and shows the frame.
func (a *App) draw() {
	a.dirty = false
	a.frames++
	stats := RenderStats{
		Frame:      a.frames,
		Started:    time.Now(),
		LayerCount: a.screen.LayerCount(),
	}
	a.screen.Render()
	stats.RenderDuration = time.Since(stats.Started)
	a.flush(&stats)
	a.backend.Show()
	if a.observer != nil {
		a.observer.ObserveRender(stats)
	}
}

// flush copies changed cells to the backend. When most of the frame changed
// and the backend takes whole rows, rows are sent instead of cells.
func (a *App) flush(stats *RenderStats) {
	buf := a.screen.Buffer()
	w, h := buf.Size()
	stats.TotalCells = w * h
	if !buf.IsDirty() {
		return
	}
	start := time.Now()
	stats.DirtyCells = buf.DirtyCount()
	stats.FullRedraw = stats.DirtyCells > stats.TotalCells/2

	if rows, ok := a.backend.(backend.RowWriter); ok && stats.FullRedraw {
		cells := buf.Cells()
		for y := 0; y < h; y++ {
			rows.SetRow(y, 0, cells[y*w:(y+1)*w])
		}
	} else {
		buf.ForEachDirtyCell(func(x, y int, c Cell) {
			a.backend.SetContent(x, y, c.Rune, nil, c.Style)
		})
	}
	buf.ClearDirty()
	stats.FlushDuration = time.Since(start)
}

// taskGroup runs effects on a context tied to Run. Effects spawned while no
// Run is active wait for the next one.
type taskGroup struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	post    PostFunc
	pending []Effect
}

func (g *taskGroup) spawn(effect Effect, post PostFunc) {
	g.mu.Lock()
	if g.ctx == nil {
		g.pending = append(g.pending, effect)
		g.mu.Unlock()
		return
	}
	ctx := g.ctx
	g.mu.Unlock()
	go effect.Run(ctx, post)
}

func (g *taskGroup) start(parent context.Context, post PostFunc) {
	g.mu.Lock()
	g.ctx, g.cancel = context.WithCancel(parent)
	g.post = post
	ctx, pending := g.ctx, g.pending
	g.pending = nil
	g.mu.Unlock()
	for _, effect := range pending {
		go effect.Run(ctx, post)
	}
}

func (g *taskGroup) stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.ctx, g.cancel = nil, nil
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
