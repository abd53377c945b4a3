package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions selects the services mounted under the admin router. Nil
// services are skipped.
type RouterOptions struct {
	Auth    Mountable
	Content Mountable
}

// Router creates the admin router:
//
//	r.Mount("/admin", admin.Router(admin.RouterOptions{
//	    Auth:    admin.NewAuthService(sessions, errorHandler),
//	    Content: admin.NewContentService(loader, sessions, errorHandler),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	if opts.Auth != nil {
		r.Mount("/auth", opts.Auth.Handle())
	}
	if opts.Content != nil {
		r.Mount("/content", opts.Content.Handle())
	}
	return r
}
