package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/odvcencio/furry-store/clipboard"
	"github.com/odvcencio/furry-store/state"
)

// Services is what a widget receives at bind time: the scope context it
// resolves stores from plus handles into the running app. Without an app
// every handle is inert.
type Services struct {
	app *App
	ctx context.Context
}

// Services returns the handle the root is bound with.
func (a *App) Services() Services {
	if a == nil {
		return Services{}
	}
	return Services{app: a, ctx: a.baseCtx}
}

// NewServices returns an app-less handle carrying ctx, for binding trees
// outside a running app.
func NewServices(ctx context.Context) Services {
	return Services{ctx: ctx}
}

// Context is the scope context for store lookups.
func (s Services) Context() context.Context {
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// WithContext returns s with its scope context replaced. Providers use it
// to hand their descendants an extended scope.
func (s Services) WithContext(ctx context.Context) Services {
	s.ctx = ctx
	return s
}

// Scheduler delivers store callbacks on the loop goroutine.
func (s Services) Scheduler() state.Scheduler { return s.app.StateScheduler() }

// InvalidateScheduler runs callbacks inline and then requests a frame.
func (s Services) InvalidateScheduler() state.Scheduler { return s.app.InvalidateScheduler() }

// Invalidate requests a frame.
func (s Services) Invalidate() { s.app.Invalidate() }

// Post hands msg to the loop, reporting false if it was dropped.
func (s Services) Post(msg Message) bool { return s.app.tryPost(msg) }

// Spawn runs effect for the lifetime of the app.
func (s Services) Spawn(effect Effect) { s.app.Spawn(effect) }

// After posts msg once delay has passed.
func (s Services) After(delay time.Duration, msg Message) {
	s.app.Spawn(After(delay, msg))
}

// Every posts fn's result every interval.
func (s Services) Every(interval time.Duration, fn func(time.Time) Message) {
	s.app.Spawn(Every(interval, fn))
}

// Clipboard falls back to an unavailable clipboard.
func (s Services) Clipboard() clipboard.Clipboard {
	if s.app == nil || s.app.clipboard == nil {
		return clipboard.UnavailableClipboard{}
	}
	return s.app.clipboard
}

// Logger falls back to slog.Default.
func (s Services) Logger() *slog.Logger {
	if s.app == nil {
		return slog.Default()
	}
	return s.app.logger
}
