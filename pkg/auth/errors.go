package auth

import "errors"

var (
	ErrMissingLoginURL  = errors.New("auth.missing_login_url")
	ErrUnexpectedStatus = errors.New("auth.unexpected_status")
	ErrInvalidAccounts  = errors.New("auth.invalid_accounts")
	ErrDuplicateAccount = errors.New("auth.duplicate_account")
	ErrTokenGeneration  = errors.New("auth.token_generation_failed")
)
