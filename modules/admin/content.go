package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/siteadmin/handler"
	"github.com/dmitrymomot/siteadmin/pkg/binder"
	"github.com/dmitrymomot/siteadmin/pkg/content"
	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

// EditorRoles may read and write remote page content.
var EditorRoles = []string{session.RoleSuperAdmin, session.RoleAdmin, session.RoleEditor}

// ContentService lets signed-in editors inspect and replace the remote
// content of a page.
type ContentService struct {
	loader       *content.Loader
	sessions     session.ManagerFactory
	errorHandler handler.ErrorHandler[handler.Context]
	roles        []string
	logger       *slog.Logger
}

type ContentOption func(*ContentService)

// WithRoles overrides EditorRoles.
func WithRoles(roles ...string) ContentOption {
	return func(s *ContentService) { s.roles = roles }
}

func WithLogger(l *slog.Logger) ContentOption {
	return func(s *ContentService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewContentService(loader *content.Loader, sessions session.ManagerFactory, errorHandler handler.ErrorHandler[handler.Context], opts ...ContentOption) *ContentService {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil)
	}
	s := &ContentService{
		loader:       loader,
		sessions:     sessions,
		errorHandler: errorHandler,
		roles:        EditorRoles,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ContentService) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(session.RequireAuth(s.sessions, s.roles...))

	r.Get("/{pageID}", handler.Wrap(s.get,
		handler.WithBinders[handler.Context, PageRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, PageRequest](s.errorHandler),
	))
	r.Put("/{pageID}", handler.Wrap(s.put,
		handler.WithBinders[handler.Context, SaveRequest](binder.JSON(), binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, SaveRequest](s.errorHandler),
	))

	return r
}

type PageRequest struct {
	PageID string `path:"pageID"`
}

// PageContent is the editor view of a page.
type PageContent struct {
	PageID   string       `json:"pageId"`
	Remote   content.Tree `json:"remote"`
	Merged   content.Tree `json:"merged"`
	Writable bool         `json:"writable"`
}

func (s *ContentService) get(ctx handler.Context, req PageRequest) handler.Response {
	if content.ValidatePageID(req.PageID) != nil || !s.loader.HasPage(req.PageID) {
		return handler.JSONError(handler.ErrNotFound)
	}

	remote := s.loader.Remote(ctx, req.PageID)
	merged, _ := s.loader.Tree(ctx, req.PageID)
	return handler.JSON(PageContent{
		PageID:   req.PageID,
		Remote:   remote,
		Merged:   merged,
		Writable: s.writable(),
	})
}

// SaveRequest replaces the remote content of a page.
type SaveRequest struct {
	PageID string       `path:"pageID" json:"-"`
	Data   content.Tree `json:"data"`
}

func (s *ContentService) put(ctx handler.Context, req SaveRequest) handler.Response {
	verr := handler.NewValidationError()
	if err := content.ValidatePageID(req.PageID); err != nil {
		verr.Add("pageId", "must be a lowercase slug")
	}
	if req.Data == nil {
		verr.Add("data", "must be an object")
	}
	if err := verr.OrNil(); err != nil {
		return handler.JSONError(err)
	}

	w, ok := s.loader.Provider().(content.Writer)
	if !ok || !s.writable() {
		return handler.JSONError(handler.ErrNotImplemented)
	}

	user, _ := session.UserFromContext(ctx)
	if err := w.Save(ctx, req.PageID, req.Data); err != nil {
		if errors.Is(err, content.ErrReadOnly) {
			return handler.JSONError(handler.ErrNotImplemented)
		}
		s.logger.ErrorContext(ctx, "save page content",
			logger.PageID(req.PageID),
			logger.Username(user.Username),
			logger.Error(err),
		)
		return handler.JSONError(errors.Join(handler.ErrBadGateway, err))
	}

	s.logger.InfoContext(ctx, "page content saved",
		logger.PageID(req.PageID),
		logger.Username(user.Username),
		logger.Role(user.Role),
	)
	return handler.Empty()
}

func (s *ContentService) writable() bool {
	p := s.loader.Provider()
	return p != nil && content.IsWritable(p)
}
