package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("binder.unsupported_media_type")
	ErrMissingContentType   = errors.New("binder.missing_content_type")
	ErrInvalidJSON          = errors.New("binder.invalid_json")
	ErrInvalidPath          = errors.New("binder.invalid_path")
)
