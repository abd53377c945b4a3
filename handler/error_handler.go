package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/siteadmin/pkg/binder"
	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/requestid"
)

// classify maps binding failures onto HTTP errors and leaves other errors
// untouched.
func classify(err error) error {
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return errors.Join(ErrUnsupportedMediaType, err)
	case errors.Is(err, binder.ErrInvalidJSON), errors.Is(err, binder.ErrInvalidPath):
		return errors.Join(ErrBadRequest, err)
	}
	return err
}

// NewErrorHandler renders errors as JSON and logs them. Client errors are
// logged at warn level, server errors at error level.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx Context, err error) {
		err = classify(err)
		resp := JSONError(err).(*jsonResponse)

		level := slog.LevelError
		if resp.status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		r := ctx.Request()
		log.LogAttrs(ctx, level, "request error",
			logger.RequestID(requestid.FromContext(ctx)),
			logger.Error(err),
			slog.Int("status_code", resp.status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("handler"),
		)

		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(ctx, "render error response", logger.Error(renderErr))
		}
	}
}
