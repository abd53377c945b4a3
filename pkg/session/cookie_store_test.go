package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/pkg/session"
)

const (
	testSecret  = "0123456789abcdef0123456789abcdef"
	otherSecret = "fedcba9876543210fedcba9876543210"
)

func newCodec(t *testing.T, secrets string) *session.CookieCodec {
	t.Helper()
	codec, err := session.NewCookieCodec(session.CookieConfig{Secrets: secrets})
	require.NoError(t, err)
	return codec
}

// replay copies Set-Cookie headers of a response into a fresh request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req
}

func TestNewCookieCodec(t *testing.T) {
	t.Run("no secret", func(t *testing.T) {
		_, err := session.NewCookieCodec(session.CookieConfig{})
		assert.ErrorIs(t, err, session.ErrNoCookieSecret)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := session.NewCookieCodec(session.CookieConfig{Secrets: "short"})
		assert.ErrorIs(t, err, session.ErrCookieSecretTooShort)
	})

	t.Run("rotation list", func(t *testing.T) {
		_, err := session.NewCookieCodec(session.CookieConfig{Secrets: testSecret + ", " + otherSecret})
		assert.NoError(t, err)
	})
}

func TestCookieStore(t *testing.T) {
	ctx := context.Background()
	codec := newCodec(t, testSecret)

	t.Run("round trip across requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store := codec.Store(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, store.Set(ctx, session.DefaultKey, `{"token":"t1"}`))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, session.DefaultKey, c.Name)
		assert.True(t, c.HttpOnly)
		assert.Zero(t, c.MaxAge)
		assert.NotContains(t, c.Value, "t1")

		next := codec.Store(httptest.NewRecorder(), replay(rec))
		v, err := next.Get(ctx, session.DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, `{"token":"t1"}`, v)
	})

	t.Run("writes are visible within the request", func(t *testing.T) {
		store := codec.Store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, store.Set(ctx, "k", "v"))

		v, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)

		require.NoError(t, store.Clear(ctx, "k"))
		_, err = store.Get(ctx, "k")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("clear expires the cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		store := codec.Store(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, store.Clear(ctx, session.DefaultKey))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Less(t, cookies[0].MaxAge, 0)
	})

	t.Run("missing cookie", func(t *testing.T) {
		store := codec.Store(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := store.Get(ctx, session.DefaultKey)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("tampered cookie is corrupt", func(t *testing.T) {
		rec := httptest.NewRecorder()
		require.NoError(t, codec.Store(rec, httptest.NewRequest(http.MethodGet, "/", nil)).Set(ctx, "k", "secret value"))
		value := rec.Result().Cookies()[0].Value

		for name, v := range map[string]string{
			"flipped": strings.ToUpper(value[:4]) + value[4:] + "AA",
			"garbage": "!!not-base64!!",
			"short":   "AAAA",
		} {
			t.Run(name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.AddCookie(&http.Cookie{Name: "k", Value: v})
				_, err := codec.Store(httptest.NewRecorder(), req).Get(ctx, "k")
				assert.ErrorIs(t, err, session.ErrCorruptSession)
			})
		}
	})

	t.Run("old secret still decrypts", func(t *testing.T) {
		old := newCodec(t, otherSecret)
		rotated := newCodec(t, testSecret+","+otherSecret)

		rec := httptest.NewRecorder()
		require.NoError(t, old.Store(rec, httptest.NewRequest(http.MethodGet, "/", nil)).Set(ctx, "k", "v"))

		v, err := rotated.Store(httptest.NewRecorder(), replay(rec)).Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v", v)

		_, err = newCodec(t, testSecret).Store(httptest.NewRecorder(), replay(rec)).Get(ctx, "k")
		assert.ErrorIs(t, err, session.ErrCorruptSession)
	})
}

func TestCookieStore_WithManager(t *testing.T) {
	ctx := context.Background()
	codec := newCodec(t, testSecret)
	clock := newFakeClock()

	rec := httptest.NewRecorder()
	m := setupManager(t, codec.Store(rec, httptest.NewRequest(http.MethodPost, "/login", nil)), clock)
	m.CheckStoredSession(ctx)
	require.True(t, m.Login(ctx, "admin@site.com", "correct").Success)

	next := setupManager(t, codec.Store(httptest.NewRecorder(), replay(rec)), clock)
	assert.Equal(t, session.StateAuthenticated, next.CheckStoredSession(ctx))
}
