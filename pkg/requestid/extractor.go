package requestid

import "github.com/dmitrymomot/siteadmin/pkg/logger"

// LoggerExtractor adds request_id to every record logged with a request
// context.
func LoggerExtractor() logger.ContextExtractor {
	return logger.FromContextValue("request_id", contextKey{})
}
