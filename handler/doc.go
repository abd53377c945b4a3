// Package handler turns typed functions into http.HandlerFuncs.
//
// A HandlerFunc receives a Context and a request value filled by binders,
// and returns a Response:
//
//	type loginRequest struct {
//	    Identifier string `json:"identifier"`
//	    Secret     string `json:"secret"`
//	}
//
//	r.Post("/auth/login", handler.Wrap(login,
//	    handler.WithBinders[handler.Context, loginRequest](binder.JSON()),
//	    handler.WithErrorHandler[handler.Context, loginRequest](errorHandler),
//	))
//
// JSON bodies use the JSONResponse envelope: {"data": ...} on success and
// {"error": {"code", "message", "details"}} on failure. HTTPError values
// carry the status code and the error code; ValidationError renders as 422
// with per-field messages. Any other error becomes a 500 whose message is
// not exposed.
package handler
