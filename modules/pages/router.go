package pages

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/siteadmin/handler"
	"github.com/dmitrymomot/siteadmin/pkg/binder"
	"github.com/dmitrymomot/siteadmin/pkg/content"
)

// Service serves the resolved content of public pages.
type Service struct {
	loader       *content.Loader
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewService(loader *content.Loader, errorHandler handler.ErrorHandler[handler.Context]) *Service {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil)
	}
	return &Service{loader: loader, errorHandler: errorHandler}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Get("/{pageID}", handler.Wrap(s.page,
		handler.WithBinders[handler.Context, PageRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, PageRequest](s.errorHandler),
	))
	return r
}

type PageRequest struct {
	PageID string `path:"pageID"`
}

// page answers with the page's defaults merged with its remote content.
// Remote failures are invisible to the client; only pages without defaults
// are not found.
func (s *Service) page(ctx handler.Context, req PageRequest) handler.Response {
	if content.ValidatePageID(req.PageID) != nil {
		return handler.JSONError(handler.ErrNotFound)
	}
	tree, ok := s.loader.Tree(ctx, req.PageID)
	if !ok {
		return handler.JSONError(handler.ErrNotFound)
	}
	return handler.JSON(tree)
}
