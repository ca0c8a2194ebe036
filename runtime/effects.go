package runtime

import (
	"context"
	"time"
)

// wait blocks for d or until ctx ends, reporting whether d elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// After returns an effect posting msg once delay has passed.
func After(delay time.Duration, msg Message) Effect {
	return Effect{Run: func(ctx context.Context, post PostFunc) {
		if msg == nil || post == nil {
			return
		}
		if wait(ctx, delay) {
			post(msg)
		}
	}}
}

// Every returns an effect calling fn each interval and posting what it
// returns. A nil message skips that tick.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{Run: func(ctx context.Context, post PostFunc) {
		if interval <= 0 || fn == nil || post == nil {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if msg := fn(now); msg != nil {
					post(msg)
				}
			}
		}
	}}
}
