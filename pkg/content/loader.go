package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/siteadmin/pkg/logger"
)

// Loader combines built-in defaults with remote content. Remote failures are
// never surfaced: the page falls back to its defaults and the failure is
// logged.
type Loader struct {
	provider Provider
	defaults Defaults
	timeout  time.Duration
	logger   *slog.Logger
}

type LoaderOption func(*Loader)

func WithDefaults(d Defaults) LoaderOption {
	return func(l *Loader) { l.defaults = d }
}

// WithFetchTimeout bounds each remote fetch.
func WithFetchTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

func WithLogger(log *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// NewLoader creates a loader. A nil provider serves defaults only.
func NewLoader(p Provider, opts ...LoaderOption) *Loader {
	l := &Loader{
		provider: p,
		defaults: Defaults{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Remote fetches a page's remote tree. It returns nil on any failure.
func (l *Loader) Remote(ctx context.Context, pageID string) Tree {
	if l.provider == nil {
		return nil
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	t, err := l.provider.Fetch(ctx, pageID)
	switch {
	case err == nil:
		return t
	case IsNotFound(err):
		l.logger.DebugContext(ctx, "no remote content, using defaults",
			logger.Component("content"),
			logger.PageID(pageID),
		)
	default:
		l.logger.WarnContext(ctx, "remote content unavailable, using defaults",
			logger.Component("content"),
			logger.PageID(pageID),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
	}
	return nil
}

// Tree returns the merged tree of a page with built-in defaults. The flag is
// false when the page has no defaults.
func (l *Loader) Tree(ctx context.Context, pageID string) (Tree, bool) {
	d, ok := l.defaults.Page(pageID)
	if !ok {
		return nil, false
	}
	return Merge(d, l.Remote(ctx, pageID)), true
}

// HasPage reports whether pageID has built-in defaults.
func (l *Loader) HasPage(pageID string) bool {
	_, ok := l.defaults.Page(pageID)
	return ok
}

// Provider returns the underlying provider, or nil.
func (l *Loader) Provider() Provider {
	return l.provider
}

// Load resolves a typed page: remote content for pageID is merged onto
// defaults as described by Resolve. It always returns a usable value.
func Load[T any](ctx context.Context, l *Loader, pageID string, defaults T) T {
	remote := l.Remote(ctx, pageID)
	out, err := TryResolve(defaults, remote)
	if err != nil {
		l.logger.WarnContext(ctx, "remote content does not fit page type, using defaults",
			logger.Component("content"),
			logger.PageID(pageID),
			logger.Error(err),
		)
		return defaults
	}
	return out
}
