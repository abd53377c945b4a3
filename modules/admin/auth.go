package admin

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/siteadmin/handler"
	"github.com/dmitrymomot/siteadmin/pkg/binder"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

// AuthService exposes login, logout and the session status.
type AuthService struct {
	sessions     session.ManagerFactory
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewAuthService(sessions session.ManagerFactory, errorHandler handler.ErrorHandler[handler.Context]) *AuthService {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil)
	}
	return &AuthService{sessions: sessions, errorHandler: errorHandler}
}

func (s *AuthService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinders[handler.Context, LoginRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, LoginRequest](s.errorHandler),
	))
	r.Post("/logout", handler.Wrap(s.logout,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/session", handler.Wrap(s.status,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))

	return r
}

// LoginRequest carries the admin's email and password.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

func (req LoginRequest) validate() error {
	verr := handler.NewValidationError()
	if strings.TrimSpace(req.Identifier) == "" {
		verr.Add("identifier", "is required")
	}
	if req.Secret == "" {
		verr.Add("secret", "is required")
	}
	return verr.OrNil()
}

func (s *AuthService) login(ctx handler.Context, req LoginRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.JSONError(err)
	}

	result := s.manager(ctx).Login(ctx, strings.TrimSpace(req.Identifier), req.Secret)
	if !result.Success {
		return handler.JSON(result, handler.WithJSONStatus(http.StatusUnauthorized))
	}
	return handler.JSON(result)
}

func (s *AuthService) logout(ctx handler.Context, _ struct{}) handler.Response {
	if err := s.manager(ctx).Logout(ctx); err != nil {
		return handler.JSONError(err)
	}
	return handler.Empty()
}

func (s *AuthService) status(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(s.manager(ctx).Status(ctx))
}

// manager reuses the Manager attached by session.Middleware.
func (s *AuthService) manager(ctx handler.Context) *session.Manager {
	if m, ok := session.FromContext(ctx); ok {
		return m
	}
	return s.sessions(ctx.ResponseWriter(), ctx.Request())
}
