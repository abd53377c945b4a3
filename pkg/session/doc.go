// Package session owns the authenticated-admin lifecycle: login through an
// external Authenticator, persistence of the resulting record in a
// single-slot Store, restoration on start-up, lazy expiry and logout.
//
// A Session is either absent or entirely valid. It holds the admin's
// identity, an opaque bearer token that is only ever forwarded, and an
// absolute expiry expressed in epoch milliseconds. Corrupt or expired
// records found in the store are cleared and treated as "no session".
//
// # Architecture
//
//	┌──────────────┐  identifier/secret  ┌───────────────┐
//	│   Manager    │ ──────────────────► │ Authenticator │
//	└──────────────┘                     └───────────────┘
//	       │  Get / Set / Clear (one fixed key)
//	       ▼
//	┌──────────────┐
//	│    Store     │ (memory, encrypted cookie, redis, …)
//	└──────────────┘
//
// The Manager walks a small state machine:
//
//	authenticating ──succeed──► authenticated
//	      │  ▲                      │
//	    fail login               expire ──► expired ──settle──► unauthenticated
//	      ▼  │
//	unauthenticated
//
// A freshly constructed Manager starts in StateAuthenticating until
// CheckStoredSession resolves it.
//
// # Usage
//
//	mgr := session.New(
//	    session.WithAuthenticator(authenticator),
//	    session.WithStore(session.NewMemoryStore()),
//	)
//	mgr.CheckStoredSession(ctx)
//
//	res := mgr.Login(ctx, "admin@site.com", "secret")
//	if !res.Success {
//	    fmt.Println(res.Message)
//	}
//
//	if mgr.IsAuthenticated(ctx) {
//	    user, _ := mgr.User(ctx)
//	    fmt.Println(user.Name)
//	}
//
//	_ = mgr.Logout(ctx)
//
// # Expiry
//
// Expiry is evaluated when the session is read. There is no background
// eviction: a record that outlives its expiry stays in the store until the
// next read, which clears it.
//
// # Error Handling
//
// Login never returns an error. Failures are reported through Result with a
// message that can be shown to the user: rejections from the Authenticator
// carry their own wording, everything else collapses to a generic message.
//
//   - ErrSessionNotFound   – the store slot is empty
//   - ErrCorruptSession    – the stored payload could not be decoded
//   - ErrInvalidCredentials – the Authenticator rejected the credentials
//   - ErrAuthUnavailable   – the Authenticator could not be reached
//   - ErrMalformedIdentity – the Authenticator answered with an unusable identity
package session
