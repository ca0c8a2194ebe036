package state

import "errors"

// ErrNoStore reports a consumer bound outside any scope that provides a store.
var ErrNoStore = errors.New("no store in scope")

// ConfigurationError reports a composition mistake: a consumer asked for a
// store that no enclosing scope provides. Fix the widget tree; do not retry.
type ConfigurationError struct {
	Scope  string
	Reason error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	reason := e.Reason
	if reason == nil {
		reason = ErrNoStore
	}
	if e.Scope == "" {
		return "state: " + reason.Error()
	}
	return "state: " + reason.Error() + " (scope " + e.Scope + ")"
}

// Unwrap exposes the underlying reason so errors.Is(err, ErrNoStore) holds.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	if e.Reason == nil {
		return ErrNoStore
	}
	return e.Reason
}
