package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/pkg/session"
)

func loggedInStore(t *testing.T, clock *fakeClock, role string) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	sess := session.NewSession(session.User{Username: "admin@site.com", Name: "A B", Role: role}, "t1", clock.Now(), session.DefaultTTL)
	raw := `{"user":{"username":"` + sess.User.Username + `","name":"A B","role":"` + role + `"},"token":"t1","expiresAt":` + itoa(sess.ExpiresAt) + `}`
	require.NoError(t, store.Set(context.Background(), session.DefaultKey, raw))
	return store
}

func staticStores(store session.Store) session.StoreFactory {
	return func(http.ResponseWriter, *http.Request) session.Store { return store }
}

func TestMiddleware(t *testing.T) {
	clock := newFakeClock()
	factory := session.NewManagerFactory(staticStores(loggedInStore(t, clock, session.RoleEditor)),
		session.WithAuthenticator(stubAuthenticator()),
		session.WithClock(clock.Now),
	)

	var got session.User
	handler := session.Middleware(factory)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := session.MustFromContext(r.Context())
		assert.Equal(t, session.StateAuthenticated, m.State())
		got, _ = session.UserFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "admin@site.com", got.Username)
	assert.Equal(t, session.RoleEditor, got.Role)
}

func TestRequireAuth(t *testing.T) {
	clock := newFakeClock()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		store  session.Store
		roles  []string
		status int
	}{
		{"anonymous", session.NewMemoryStore(), nil, http.StatusUnauthorized},
		{"authenticated", loggedInStore(t, clock, session.RoleEditor), nil, http.StatusNoContent},
		{"role allowed", loggedInStore(t, clock, session.RoleSuperAdmin), []string{session.RoleAdmin, session.RoleSuperAdmin}, http.StatusNoContent},
		{"role denied", loggedInStore(t, clock, session.RoleEditor), []string{session.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := session.NewManagerFactory(staticStores(tt.store),
				session.WithAuthenticator(stubAuthenticator()),
				session.WithClock(clock.Now),
			)
			rec := httptest.NewRecorder()
			session.RequireAuth(factory, tt.roles...)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestBrowserScoped(t *testing.T) {
	var ids []string
	factory := session.BrowserScoped("", false, func(id string) session.Store {
		ids = append(ids, id)
		return session.NewMemoryStore()
	})

	rec := httptest.NewRecorder()
	factory(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.DefaultBrowserCookie, cookies[0].Name)
	assert.Zero(t, cookies[0].MaxAge)
	_, err := uuid.Parse(cookies[0].Value)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultBrowserCookie, Value: cookies[0].Value})
	rec = httptest.NewRecorder()
	factory(rec, req)
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultBrowserCookie, Value: "forged"})
	factory(httptest.NewRecorder(), req)

	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, "forged", ids[2])
}
