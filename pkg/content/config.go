package content

import "time"

// Backend names a content source.
type Backend string

const (
	BackendHTTP     Backend = "http"
	BackendS3       Backend = "s3"
	BackendPostgres Backend = "postgres"
	BackendNone     Backend = "none"
)

// Config selects and tunes the content source.
type Config struct {
	Backend      Backend       `env:"CONTENT_BACKEND" envDefault:"http"`
	BaseURL      string        `env:"CONTENT_BASE_URL"`
	Timeout      time.Duration `env:"CONTENT_TIMEOUT" envDefault:"5s"`
	CacheTTL     time.Duration `env:"CONTENT_CACHE_TTL" envDefault:"1m"`
	CacheSize    int           `env:"CONTENT_CACHE_SIZE" envDefault:"256"`
	DefaultsFile string        `env:"CONTENT_DEFAULTS_FILE" envDefault:"content/defaults.yaml"`
}

// S3Config locates page documents in a bucket. Objects are stored as
// <Prefix><pageID>.json.
type S3Config struct {
	Bucket         string `env:"CONTENT_S3_BUCKET"`
	Region         string `env:"CONTENT_S3_REGION" envDefault:"us-east-1"`
	Prefix         string `env:"CONTENT_S3_PREFIX" envDefault:"pages/"`
	AccessKeyID    string `env:"CONTENT_S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"CONTENT_S3_SECRET_KEY"`
	Endpoint       string `env:"CONTENT_S3_ENDPOINT"` // S3-compatible services
	ForcePathStyle bool   `env:"CONTENT_S3_FORCE_PATH_STYLE" envDefault:"false"`
}
