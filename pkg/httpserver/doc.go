// Package httpserver runs the admin HTTP server with graceful shutdown and
// serves the liveness and readiness probes.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r.Get("/healthz", httpserver.LivenessHandler())
//	r.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second,
//	    httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run listens before returning control to start hooks, so Addr reports the
// bound address when the configured one uses port 0.
package httpserver
