package session

import "time"

const (
	// DefaultKey is the storage key of the session slot.
	DefaultKey = "admin_session"
	// DefaultTTL is the fixed lifetime of a session from login.
	DefaultTTL = time.Hour
)

// Config holds session configuration
type Config struct {
	// Key is the storage key of the session slot (default: "admin_session")
	Key string `env:"SESSION_KEY" envDefault:"admin_session"`

	// TTL is the time from login until the session expires
	TTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		Key: DefaultKey,
		TTL: DefaultTTL,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// Requires an Authenticator via options.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
