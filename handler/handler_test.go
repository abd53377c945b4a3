package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/siteadmin/handler"
	"github.com/dmitrymomot/siteadmin/pkg/binder"
)

type renderFunc func(w http.ResponseWriter, r *http.Request) error

func (f renderFunc) Render(w http.ResponseWriter, r *http.Request) error { return f(w, r) }

type greetRequest struct {
	Name string `json:"name"`
}

func TestWrap(t *testing.T) {
	t.Run("binds and renders", func(t *testing.T) {
		h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
			return handler.JSON(map[string]string{"hello": req.Name})
		}, handler.WithBinders[handler.Context, greetRequest](binder.JSON()))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ada"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":{"hello":"ada"}}`, rec.Body.String())
	})

	t.Run("binder error stops the request", func(t *testing.T) {
		called := false
		h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
			called = true
			return handler.Empty()
		},
			handler.WithBinders[handler.Context, greetRequest](binder.JSON()),
			handler.WithErrorHandler[handler.Context, greetRequest](handler.NewErrorHandler(nil)),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

		assert.False(t, called)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("binders run in order", func(t *testing.T) {
		var order []string
		b := func(name string) handler.Bind {
			return func(r *http.Request, v any) error {
				order = append(order, name)
				v.(*greetRequest).Name = name
				return nil
			}
		}
		h := handler.Wrap(func(ctx handler.Context, req greetRequest) handler.Response {
			return handler.JSON(req.Name)
		}, handler.WithBinders[handler.Context, greetRequest](b("first"), nil, b("second")))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"first", "second"}, order)
		assert.JSONEq(t, `{"data":"second"}`, rec.Body.String())
	})

	t.Run("nil response", func(t *testing.T) {
		var got error
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response { return nil },
			handler.WithErrorHandler[handler.Context, struct{}](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, handler.ErrNilResponse)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("default error handler", func(t *testing.T) {
		render := func(err error) http.HandlerFunc {
			return handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
				return renderFunc(func(http.ResponseWriter, *http.Request) error { return err })
			})
		}

		rec := httptest.NewRecorder()
		render(fmt.Errorf("lookup: %w", handler.ErrNotFound))(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")

		rec = httptest.NewRecorder()
		render(errors.New("db password leaked"))(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("decorators wrap in order", func(t *testing.T) {
		var trace []string
		deco := func(name string) handler.Decorator[handler.Context, struct{}] {
			return func(next handler.HandlerFunc[handler.Context, struct{}]) handler.HandlerFunc[handler.Context, struct{}] {
				return func(ctx handler.Context, req struct{}) handler.Response {
					trace = append(trace, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(func(ctx handler.Context, req struct{}) handler.Response {
			trace = append(trace, "handler")
			return handler.Empty()
		}, handler.WithDecorators(deco("outer"), deco("inner")))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("context delegates to the request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		ctx := handler.NewContext(rec, req)

		require.Same(t, req, ctx.Request())
		assert.NoError(t, ctx.Err())
		assert.Nil(t, ctx.Value("missing"))
	})
}
