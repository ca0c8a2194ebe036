package state

import "context"

// Scope makes one store reachable to every consumer below the point where it
// is provided, without threading the store through intermediate layers.
//
// Each Scope is its own key, so two scopes over the same state type never
// see each other's stores. A nested Provide shadows the outer one.
type Scope[S any] struct {
	name string
	key  *scopeKey
}

type scopeKey struct {
	name string
}

// NewScope creates a scope key. The name only appears in errors and logs.
func NewScope[S any](name string) *Scope[S] {
	return &Scope[S]{
		name: name,
		key:  &scopeKey{name: name},
	}
}

// Name returns the scope label.
func (sc *Scope[S]) Name() string {
	if sc == nil {
		return ""
	}
	return sc.name
}

// Provide returns a context in which From resolves to store.
func (sc *Scope[S]) Provide(ctx context.Context, store *Store[S]) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if sc == nil || store == nil {
		return ctx
	}
	return context.WithValue(ctx, sc.key, store)
}

// From returns the nearest store provided for this scope.
// It fails with a *ConfigurationError when no enclosing scope provided one.
func (sc *Scope[S]) From(ctx context.Context) (*Store[S], error) {
	if sc == nil {
		return nil, &ConfigurationError{Reason: ErrNoStore}
	}
	if ctx != nil {
		if store, ok := ctx.Value(sc.key).(*Store[S]); ok && store != nil {
			return store, nil
		}
	}
	return nil, &ConfigurationError{Scope: sc.name, Reason: ErrNoStore}
}

// Use resolves the scoped store and binds selector over it.
func Use[S, T any](ctx context.Context, scope *Scope[S], selector Selector[S, T]) (*Binding[S, T], error) {
	store, err := scope.From(ctx)
	if err != nil {
		return nil, err
	}
	return Select[S, T](store, selector), nil
}
