// Package auth provides session.Authenticator implementations.
//
// RemoteAuthenticator posts credentials to the login API and maps its
// response onto session.Identity:
//
//	POST {AUTH_LOGIN_URL}
//	{"email": "...", "password": "..."}
//
//	200 {"token": "...", "user": {"email", "firstName", "lastName", "role"}}
//	401 {"message": "Email or password is incorrect"}
//
// Rejections (400, 401, 403, 422) become session.RejectionError so their
// message reaches the login form verbatim. Any other status and every
// transport error is reported as session.ErrAuthUnavailable.
//
// LocalAuthenticator checks credentials against bcrypt hashes from a YAML
// accounts file and issues random opaque tokens. It serves development and
// single-operator deployments that have no login API.
package auth
