// Package requestid tags every request with a correlation id.
//
// Middleware accepts a client supplied X-Request-ID when it is 1 to 128
// characters of [a-zA-Z0-9_-] and generates a UUID otherwise. The id is
// stored in the request context, echoed in the response header and added to
// log records through LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware, requestid.AccessLog(log))
package requestid
