// Package logger builds the service's *slog.Logger and keeps attribute
// naming consistent across packages.
//
// New takes functional options for level, format, output, static attributes
// and context extractors. Every logger is wrapped in ContextHandler so
// request-scoped values such as the request id are added at Handle time:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "siteadmin"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "admin logged in",
//	    logger.Component("session"),
//	    logger.Username(user.Username),
//	)
//
// Error, Username, Role, PageID and RequestID return an empty slog.Attr for
// zero input, which slog drops, so they can be passed without nil checks.
package logger
