// Package config loads service configuration from the environment.
//
// Configuration structs are annotated with `env` and `envDefault` tags and
// parsed with github.com/caarlos0/env/v11. Optional .env files are read with
// github.com/joho/godotenv; the default ./.env is picked up automatically.
//
//	type Config struct {
//	    Env  config.Environment `env:"APP_ENV" envDefault:"development"`
//	    Addr string             `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Every type is parsed once per process and served from a cache afterwards.
//
// Errors: ErrParsingConfig, ErrLoadingEnvFile, ErrNilPointer.
package config
