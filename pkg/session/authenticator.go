package session

import (
	"context"
	"strings"
)

// IdentityUser is the user block of a login response.
type IdentityUser struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Identity is what an Authenticator returns for accepted credentials.
type Identity struct {
	Token string       `json:"token"`
	User  IdentityUser `json:"user"`
}

// Validate checks that the identity can back a session.
func (i *Identity) Validate() error {
	if i == nil || i.Token == "" || strings.TrimSpace(i.User.Email) == "" {
		return ErrMalformedIdentity
	}
	return nil
}

// SessionUser maps the login response user onto the stored user shape.
func (i *Identity) SessionUser() User {
	return User{
		Username: strings.TrimSpace(i.User.Email),
		Name:     strings.TrimSpace(i.User.FirstName + " " + i.User.LastName),
		Role:     i.User.Role,
	}
}

// Authenticator validates credentials against the login API.
//
// Implementations return ErrInvalidCredentials (or a RejectionError carrying
// a display message) for rejected credentials and ErrAuthUnavailable for
// transport or server failures.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (*Identity, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, identifier, secret string) (*Identity, error)

func (f AuthenticatorFunc) Login(ctx context.Context, identifier, secret string) (*Identity, error) {
	return f(ctx, identifier, secret)
}
