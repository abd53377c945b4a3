package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

// maxResponseSize caps how much of a login response is read.
const maxResponseSize = 1 << 20

// RemoteConfig configures the login API client.
type RemoteConfig struct {
	LoginURL string        `env:"AUTH_LOGIN_URL"`
	Timeout  time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

// RemoteAuthenticator calls the login API over HTTP.
type RemoteAuthenticator struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

type RemoteOption func(*RemoteAuthenticator)

// WithHTTPClient replaces the HTTP client. RemoteConfig.Timeout is ignored
// in that case.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(a *RemoteAuthenticator) {
		if c != nil {
			a.client = c
		}
	}
}

func WithRemoteLogger(l *slog.Logger) RemoteOption {
	return func(a *RemoteAuthenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewRemoteAuthenticator creates a client for cfg.LoginURL.
func NewRemoteAuthenticator(cfg RemoteConfig, opts ...RemoteOption) (*RemoteAuthenticator, error) {
	if cfg.LoginURL == "" {
		return nil, ErrMissingLoginURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	a := &RemoteAuthenticator{
		url:    cfg.LoginURL,
		client: &http.Client{Timeout: timeout},
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRejection struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Login implements session.Authenticator.
func (a *RemoteAuthenticator) Login(ctx context.Context, identifier, secret string) (*session.Identity, error) {
	body, err := json.Marshal(loginRequest{Email: identifier, Password: secret})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(session.ErrAuthUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.WarnContext(ctx, "login api unreachable",
			logger.Component("auth"),
			logger.Error(err),
		)
		return nil, errors.Join(session.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Join(session.ErrAuthUnavailable, err)
	}

	a.logger.DebugContext(ctx, "login api responded",
		logger.Component("auth"),
		slog.Int("status", resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var identity session.Identity
		if err := json.Unmarshal(payload, &identity); err != nil {
			return nil, errors.Join(session.ErrMalformedIdentity, err)
		}
		if err := identity.Validate(); err != nil {
			return nil, err
		}
		return &identity, nil

	case isRejection(resp.StatusCode):
		var rej loginRejection
		_ = json.Unmarshal(payload, &rej)
		msg := rej.Message
		if msg == "" {
			msg = rej.Error
		}
		return nil, session.Reject(msg)

	default:
		return nil, errors.Join(session.ErrAuthUnavailable,
			fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}
}

func isRejection(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}
