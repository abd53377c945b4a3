package session

import (
	"encoding/json"
	"errors"
	"slices"
	"time"
)

// Role names issued by the login API.
const (
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleSuperAdmin = "super_admin"
)

// User identifies the authenticated admin.
type User struct {
	Username string `json:"username"` // the admin's email
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// HasRole reports whether the user holds any of the given roles.
func (u User) HasRole(roles ...string) bool {
	return slices.Contains(roles, u.Role)
}

// IsAdmin is true for admin and super_admin roles.
func (u User) IsAdmin() bool {
	return u.HasRole(RoleAdmin, RoleSuperAdmin)
}

// Session is the persisted authenticated-state record.
type Session struct {
	User      User   `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
}

// NewSession creates a session that expires ttl after now.
func NewSession(user User, token string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		User:      user,
		Token:     token,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
}

// Expiry returns ExpiresAt as a time.Time.
func (s *Session) Expiry() time.Time {
	if s == nil {
		return time.Time{}
	}
	return time.UnixMilli(s.ExpiresAt)
}

// IsExpired reports whether the session is no longer usable at now.
// A nil session is always expired.
func (s *Session) IsExpired(now time.Time) bool {
	return s == nil || now.UnixMilli() >= s.ExpiresAt
}

// complete reports whether every field of the record is populated.
func (s *Session) complete() bool {
	return s != nil && s.Token != "" && s.User.Username != "" && s.ExpiresAt > 0
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func encodeSession(s *Session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeSession parses a persisted record. Anything that is not a complete
// record is reported as ErrCorruptSession.
func decodeSession(raw string) (*Session, error) {
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.Join(ErrCorruptSession, err)
	}
	if !s.complete() {
		return nil, ErrCorruptSession
	}
	return &s, nil
}
