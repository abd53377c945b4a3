package admin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/modules/admin"
	"github.com/dmitrymomot/siteadmin/pkg/content"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

func authenticator() session.Authenticator {
	return session.AuthenticatorFunc(func(ctx context.Context, identifier, secret string) (*session.Identity, error) {
		switch {
		case identifier == "admin@site.com" && secret == "correct":
			return &session.Identity{Token: "tok-1", User: session.IdentityUser{
				Email: identifier, FirstName: "Site", LastName: "Admin", Role: session.RoleAdmin,
			}}, nil
		case identifier == "viewer@site.com" && secret == "correct":
			return &session.Identity{Token: "tok-2", User: session.IdentityUser{
				Email: identifier, FirstName: "View", Role: "viewer",
			}}, nil
		}
		return nil, session.Reject("Email or password is incorrect")
	})
}

// pageStore is a writable content provider.
type pageStore struct {
	mu    sync.Mutex
	pages map[string]content.Tree
}

func (p *pageStore) Fetch(ctx context.Context, pageID string) (content.Tree, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.pages[pageID]
	if !ok {
		return nil, content.ErrPageNotFound
	}
	return t, nil
}

func (p *pageStore) Save(ctx context.Context, pageID string, data content.Tree) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pages[pageID] = data
	return nil
}

type testApp struct {
	handler http.Handler
	store   *session.MemoryStore
	pages   *pageStore
}

func newApp(t *testing.T, provider content.Provider) *testApp {
	t.Helper()
	store := session.NewMemoryStore()
	sessions := session.NewManagerFactory(
		func(http.ResponseWriter, *http.Request) session.Store { return store },
		session.WithAuthenticator(authenticator()),
	)

	d, err := content.ParseDefaults([]byte("pages:\n  home:\n    title: Welcome\n    subtitle: Built-in\n"))
	require.NoError(t, err)
	pages := &pageStore{pages: map[string]content.Tree{}}
	if provider == nil {
		provider = pages
	}
	loader := content.NewLoader(provider, content.WithDefaults(d))

	return &testApp{
		handler: admin.Router(admin.RouterOptions{
			Auth:    admin.NewAuthService(sessions, nil),
			Content: admin.NewContentService(loader, sessions, nil),
		}),
		store: store,
		pages: pages,
	}
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, identifier string) {
	t.Helper()
	rec := a.do(http.MethodPost, "/auth/login", `{"identifier":"`+identifier+`","secret":"correct"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuth(t *testing.T) {
	t.Run("login", func(t *testing.T) {
		app := newApp(t, nil)
		rec := app.do(http.MethodPost, "/auth/login", `{"identifier":" admin@site.com ","secret":"correct"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"success":true,"user":{"username":"admin@site.com","name":"Site Admin","role":"admin"}}}`, rec.Body.String())
		assert.Equal(t, 1, app.store.Len())

		rec = app.do(http.MethodGet, "/auth/session", "")
		assert.JSONEq(t, `{"data":{"user":{"username":"admin@site.com","name":"Site Admin","role":"admin"},"isAuthenticated":true,"isLoading":false}}`, rec.Body.String())
	})

	t.Run("rejected login", func(t *testing.T) {
		app := newApp(t, nil)
		rec := app.do(http.MethodPost, "/auth/login", `{"identifier":"admin@site.com","secret":"wrong"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"data":{"success":false,"message":"Email or password is incorrect"}}`, rec.Body.String())
		assert.Equal(t, 0, app.store.Len())
	})

	t.Run("validation", func(t *testing.T) {
		app := newApp(t, nil)
		rec := app.do(http.MethodPost, "/auth/login", `{"identifier":"","secret":""}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"identifier":["is required"]`)
		assert.Contains(t, rec.Body.String(), `"secret":["is required"]`)
	})

	t.Run("malformed body", func(t *testing.T) {
		app := newApp(t, nil)
		assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPost, "/auth/login", `{"email":"x"}`).Code)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		app := newApp(t, nil)
		app.login(t, "admin@site.com")

		assert.Equal(t, http.StatusNoContent, app.do(http.MethodPost, "/auth/logout", "").Code)
		assert.Equal(t, http.StatusNoContent, app.do(http.MethodPost, "/auth/logout", "").Code)
		assert.Equal(t, 0, app.store.Len())

		rec := app.do(http.MethodGet, "/auth/session", "")
		assert.JSONEq(t, `{"data":{"user":null,"isAuthenticated":false,"isLoading":false}}`, rec.Body.String())
	})
}

func TestContent(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		app := newApp(t, nil)
		assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/content/home", "").Code)
		assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodPut, "/content/home", `{"data":{}}`).Code)
	})

	t.Run("requires an editor role", func(t *testing.T) {
		app := newApp(t, nil)
		app.login(t, "viewer@site.com")
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/content/home", "").Code)
	})

	t.Run("save then read", func(t *testing.T) {
		app := newApp(t, nil)
		app.login(t, "admin@site.com")

		rec := app.do(http.MethodPut, "/content/home", `{"data":{"title":"Edited"}}`)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		assert.Equal(t, content.Tree{"title": "Edited"}, app.pages.pages["home"])

		rec = app.do(http.MethodGet, "/content/home", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{
			"pageId":"home",
			"remote":{"title":"Edited"},
			"merged":{"title":"Edited","subtitle":"Built-in"},
			"writable":true
		}}`, rec.Body.String())
	})

	t.Run("invalid save", func(t *testing.T) {
		app := newApp(t, nil)
		app.login(t, "admin@site.com")

		rec := app.do(http.MethodPut, "/content/Bad_Page", `{"data":null}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `"pageId"`)
		assert.Contains(t, rec.Body.String(), `"data"`)

		assert.Equal(t, http.StatusBadRequest, app.do(http.MethodPut, "/content/home", `{"data":[1]}`).Code)
	})

	t.Run("read-only backend", func(t *testing.T) {
		ro := content.ProviderFunc(func(context.Context, string) (content.Tree, error) { return nil, nil })
		app := newApp(t, content.NewCachedProvider(ro, 8, 0))
		app.login(t, "admin@site.com")

		rec := app.do(http.MethodPut, "/content/home", `{"data":{"title":"x"}}`)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)

		rec = app.do(http.MethodGet, "/content/home", "")
		assert.Contains(t, rec.Body.String(), `"writable":false`)
	})

	t.Run("unknown page", func(t *testing.T) {
		app := newApp(t, nil)
		app.login(t, "admin@site.com")
		assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/content/contact", "").Code)
	})
}
