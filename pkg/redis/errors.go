package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis.invalid_connection_url")
	ErrRedisNotReady                = errors.New("redis.not_ready")
	ErrHealthcheckFailed            = errors.New("redis.healthcheck_failed")
)
