package redis

import "time"

// Config holds the connection and slot settings.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // redis://:password@host:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// Prefix namespaces every slot key, e.g. "siteadmin:session:<browser id>:admin_session".
	Prefix string `env:"REDIS_SESSION_PREFIX" envDefault:"siteadmin:session"`
	// SlotTTL bounds how long an abandoned slot survives on the server.
	SlotTTL time.Duration `env:"REDIS_SESSION_SLOT_TTL" envDefault:"1h"`
}
