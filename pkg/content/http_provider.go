package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxPayloadSize = 4 << 20

// HTTPProvider fetches GET {baseURL}/{pageID} and expects the data envelope.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

type HTTPOption func(*HTTPProvider)

// WithHTTPClient replaces the client built from Config.Timeout.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// NewHTTPProvider creates a provider for cfg.BaseURL.
func NewHTTPProvider(cfg Config, opts ...HTTPOption) (*HTTPProvider, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &HTTPProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *HTTPProvider) Fetch(ctx context.Context, pageID string) (Tree, error) {
	if err := ValidatePageID(pageID); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+url.PathEscape(pageID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %s: %w", pageID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	t, err := DecodeEnvelope(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("page %s", pageID), err)
	}
	return t, nil
}
