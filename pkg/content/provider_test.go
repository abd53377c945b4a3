package content_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/pkg/content"
)

func TestValidatePageID(t *testing.T) {
	for _, id := range []string{"home", "about-us", "faq_2", "a"} {
		assert.NoError(t, content.ValidatePageID(id), id)
	}
	for _, id := range []string{"", "Home", "-lead", "a/b", "../etc", "x y", strings.Repeat("a", 129)} {
		assert.ErrorIs(t, content.ValidatePageID(id), content.ErrInvalidPageID, id)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		tree, err := content.DecodeEnvelope(strings.NewReader(`{"data":{"n":1,"s":"x"}}`))
		require.NoError(t, err)
		assert.Equal(t, content.Tree{"n": json.Number("1"), "s": "x"}, tree)
	})

	t.Run("null and missing data", func(t *testing.T) {
		for _, body := range []string{`{"data":null}`, `{}`} {
			tree, err := content.DecodeEnvelope(strings.NewReader(body))
			require.NoError(t, err)
			assert.Nil(t, tree)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, body := range []string{`not json`, `{"data":[1,2]}`, `{"data":"x"}`, `[]`} {
			_, err := content.DecodeEnvelope(strings.NewReader(body))
			assert.ErrorIs(t, err, content.ErrInvalidPayload, body)
		}
	})

	t.Run("encode round trip", func(t *testing.T) {
		body, err := content.EncodeEnvelope(content.Tree{"a": "b"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"data":{"a":"b"}}`, string(body))
	})
}

func newContentAPI(t *testing.T, handler http.HandlerFunc) *content.HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := content.NewHTTPProvider(content.Config{BaseURL: srv.URL + "/api/content/", Timeout: time.Second})
	require.NoError(t, err)
	return p
}

func TestHTTPProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("missing base url", func(t *testing.T) {
		_, err := content.NewHTTPProvider(content.Config{})
		assert.ErrorIs(t, err, content.ErrMissingBaseURL)
	})

	t.Run("fetch", func(t *testing.T) {
		p := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/content/home", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":{"hero":{"title":"Remote"}}}`))
		})

		tree, err := p.Fetch(ctx, "home")
		require.NoError(t, err)
		assert.Equal(t, content.Tree{"hero": map[string]any{"title": "Remote"}}, tree)
	})

	t.Run("not found", func(t *testing.T) {
		p := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		_, err := p.Fetch(ctx, "home")
		assert.ErrorIs(t, err, content.ErrPageNotFound)
		assert.True(t, content.IsNotFound(err))
	})

	t.Run("server error", func(t *testing.T) {
		p := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		_, err := p.Fetch(ctx, "home")
		assert.ErrorIs(t, err, content.ErrUnexpectedStatus)
	})

	t.Run("invalid payload", func(t *testing.T) {
		p := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":`))
		})
		_, err := p.Fetch(ctx, "home")
		assert.ErrorIs(t, err, content.ErrInvalidPayload)
	})

	t.Run("invalid page id never reaches the server", func(t *testing.T) {
		p := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request")
		})
		_, err := p.Fetch(ctx, "../admin")
		assert.ErrorIs(t, err, content.ErrInvalidPageID)
	})
}
