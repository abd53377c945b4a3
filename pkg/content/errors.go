package content

import "errors"

var (
	ErrPageNotFound     = errors.New("content.page_not_found")
	ErrInvalidPageID    = errors.New("content.invalid_page_id")
	ErrUnexpectedStatus = errors.New("content.unexpected_status")
	ErrInvalidPayload   = errors.New("content.invalid_payload")
	ErrNotATree         = errors.New("content.not_a_tree")
	ErrDecode           = errors.New("content.decode_failed")
	ErrReadOnly         = errors.New("content.read_only")
	ErrMissingBaseURL   = errors.New("content.missing_base_url")
	ErrMissingBucket    = errors.New("content.missing_bucket")
	ErrUnknownBackend   = errors.New("content.unknown_backend")
)
