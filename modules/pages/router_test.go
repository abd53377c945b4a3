package pages_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/modules/pages"
	"github.com/dmitrymomot/siteadmin/pkg/content"
)

const defaults = `
pages:
  home:
    hero:
      title: Welcome
      subtitle: Built-in
    items: [1, 2, 3]
`

func newServer(t *testing.T, fetch content.ProviderFunc) http.Handler {
	t.Helper()
	d, err := content.ParseDefaults([]byte(defaults))
	require.NoError(t, err)
	return pages.NewService(content.NewLoader(fetch, content.WithDefaults(d)), nil).Handle()
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPage(t *testing.T) {
	t.Run("merged content", func(t *testing.T) {
		h := newServer(t, func(context.Context, string) (content.Tree, error) {
			return content.Tree{"hero": map[string]any{"title": "Remote"}, "items": []any{9}}, nil
		})

		rec := get(h, "/home")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"hero":{"title":"Remote","subtitle":"Built-in"},"items":[9]}}`, rec.Body.String())
	})

	t.Run("remote failure serves defaults", func(t *testing.T) {
		h := newServer(t, func(context.Context, string) (content.Tree, error) {
			return nil, errors.New("timeout")
		})

		rec := get(h, "/home")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"hero":{"title":"Welcome","subtitle":"Built-in"},"items":[1,2,3]}}`, rec.Body.String())
	})

	t.Run("unknown pages", func(t *testing.T) {
		h := newServer(t, func(context.Context, string) (content.Tree, error) {
			return content.Tree{"title": "orphan"}, nil
		})

		for _, path := range []string{"/contact", "/Home"} {
			rec := get(h, path)
			assert.Equal(t, http.StatusNotFound, rec.Code, path)
			assert.Contains(t, rec.Body.String(), `"code":"not_found"`)
		}
	})
}
