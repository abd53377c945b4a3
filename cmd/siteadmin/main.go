package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/siteadmin/handler"
	"github.com/dmitrymomot/siteadmin/modules/admin"
	"github.com/dmitrymomot/siteadmin/modules/pages"
	"github.com/dmitrymomot/siteadmin/pkg/auth"
	"github.com/dmitrymomot/siteadmin/pkg/config"
	"github.com/dmitrymomot/siteadmin/pkg/content"
	"github.com/dmitrymomot/siteadmin/pkg/httpserver"
	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/pg"
	"github.com/dmitrymomot/siteadmin/pkg/redis"
	"github.com/dmitrymomot/siteadmin/pkg/requestid"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

type appConfig struct {
	Env            config.Environment `env:"APP_ENV" envDefault:"development"`
	Service        string             `env:"APP_SERVICE" envDefault:"siteadmin"`
	SessionBackend string             `env:"SESSION_BACKEND" envDefault:"cookie"` // cookie | redis
	AuthMode       string             `env:"AUTH_MODE" envDefault:"remote"`       // remote | local
	ReadyTimeout   time.Duration      `env:"HTTP_READY_TIMEOUT" envDefault:"2s"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	slog.SetDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("siteadmin stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	var checks []httpserver.Check
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	authenticator, err := newAuthenticator(cfg.AuthMode, log)
	if err != nil {
		return err
	}

	var sessionCfg session.Config
	if err := config.Load(&sessionCfg); err != nil {
		return err
	}
	var cookieCfg session.CookieConfig
	if err := config.Load(&cookieCfg); err != nil {
		return err
	}

	var stores session.StoreFactory
	switch cfg.SessionBackend {
	case "cookie":
		codec, err := session.NewCookieCodec(cookieCfg)
		if err != nil {
			return err
		}
		stores = codec.Factory()
	case "redis":
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = client.Close() })
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
		stores = redis.NewSlotStoreFromConfig(client, redisCfg).Factory(session.DefaultBrowserCookie, cookieCfg.Secure)
	default:
		return fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}

	sessions := session.NewManagerFactory(stores,
		session.WithConfig(sessionCfg),
		session.WithAuthenticator(authenticator),
		session.WithLogger(log),
	)

	loader, err := newContentLoader(ctx, log, &checks, &closers)
	if err != nil {
		return err
	}

	errorHandler := handler.NewErrorHandler(log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requestid.AccessLog(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, cfg.ReadyTimeout, checks...))

	r.Mount("/admin", admin.Router(admin.RouterOptions{
		Auth: admin.NewAuthService(sessions, errorHandler),
		Content: admin.NewContentService(loader, sessions, errorHandler,
			admin.WithLogger(log),
		),
	}))
	r.Mount("/pages", pages.NewService(loader, errorHandler).Handle())

	var serverCfg httpserver.Config
	if err := config.Load(&serverCfg); err != nil {
		return err
	}
	return httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log)).Run(ctx, r)
}

func newAuthenticator(mode string, log *slog.Logger) (session.Authenticator, error) {
	switch mode {
	case "remote":
		var cfg auth.RemoteConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		return auth.NewRemoteAuthenticator(cfg, auth.WithRemoteLogger(log))
	case "local":
		var cfg auth.LocalConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		return auth.NewLocalAuthenticatorFromConfig(cfg, auth.WithLocalLogger(log))
	}
	return nil, fmt.Errorf("unknown auth mode %q", mode)
}

func newContentLoader(ctx context.Context, log *slog.Logger, checks *[]httpserver.Check, closers *[]func()) (*content.Loader, error) {
	var cfg content.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	defaults, err := content.LoadDefaults(cfg.DefaultsFile)
	if err != nil {
		return nil, err
	}

	var provider content.Provider
	switch cfg.Backend {
	case content.BackendHTTP:
		p, err := content.NewHTTPProvider(cfg, content.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
		if err != nil {
			return nil, err
		}
		provider = p
	case content.BackendS3:
		var s3Cfg content.S3Config
		if err := config.Load(&s3Cfg); err != nil {
			return nil, err
		}
		p, err := content.NewS3Provider(ctx, s3Cfg)
		if err != nil {
			return nil, err
		}
		provider = p
	case content.BackendPostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, pool.Close)
		*checks = append(*checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)})
		if pgCfg.Migrate {
			if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
				return nil, err
			}
		}
		provider = content.NewPostgresProvider(pool)
	case content.BackendNone:
	default:
		return nil, errors.Join(content.ErrUnknownBackend, fmt.Errorf("backend %q", cfg.Backend))
	}

	if provider != nil {
		provider = content.NewCachedProvider(provider, cfg.CacheSize, cfg.CacheTTL)
	}

	log.Info("content loader ready",
		logger.Backend(string(cfg.Backend)),
		slog.Int("pages", len(defaults)),
	)

	return content.NewLoader(provider,
		content.WithDefaults(defaults),
		content.WithFetchTimeout(cfg.Timeout),
		content.WithLogger(log),
	), nil
}
