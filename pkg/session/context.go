package session

import "context"

type managerContextKey struct{}

// WithManager adds a manager to the context
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerContextKey{}, m)
}

// FromContext retrieves the manager from the context
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerContextKey{}).(*Manager)
	return m, ok
}

// MustFromContext retrieves the manager from the context or panics
func MustFromContext(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("session: manager not found in context")
	}
	return m
}

// UserFromContext retrieves the authenticated user from the manager in context
func UserFromContext(ctx context.Context) (User, bool) {
	m, ok := FromContext(ctx)
	if !ok {
		return User{}, false
	}
	return m.User(ctx)
}
