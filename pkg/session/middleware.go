package session

import (
	"net/http"
)

// StoreFactory builds the Store for one request's browsing context.
type StoreFactory func(w http.ResponseWriter, r *http.Request) Store

// ManagerFactory builds a Manager bound to one request's browsing context.
type ManagerFactory func(w http.ResponseWriter, r *http.Request) *Manager

// NewManagerFactory returns a factory that creates a Manager per request with
// a Store from stores. The stored session is checked before it is returned.
func NewManagerFactory(stores StoreFactory, opts ...Option) ManagerFactory {
	return func(w http.ResponseWriter, r *http.Request) *Manager {
		mopts := make([]Option, 0, len(opts)+1)
		mopts = append(mopts, opts...)
		mopts = append(mopts, WithStore(stores(w, r)))

		m := New(mopts...)
		m.CheckStoredSession(r.Context())
		return m
	}
}

// Middleware attaches a checked Manager to every request context.
func Middleware(factory ManagerFactory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := factory(w, r)
			next.ServeHTTP(w, r.WithContext(WithManager(r.Context(), m)))
		})
	}
}

// RequireAuth rejects requests without an authenticated session. When roles
// are given, the user must hold one of them. It reuses a Manager attached by
// Middleware and builds one otherwise.
func RequireAuth(factory ManagerFactory, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, ok := FromContext(r.Context())
			if !ok {
				m = factory(w, r)
			}

			user, ok := m.User(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !user.HasRole(roles...) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithManager(r.Context(), m)))
		})
	}
}
