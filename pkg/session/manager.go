package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/siteadmin/pkg/logger"
)

// Result is the outcome of a login attempt.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Status is the caller-facing view of the session.
type Status struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
	IsLoading       bool  `json:"isLoading"`
}

// Manager is the single source of truth for whether an admin is
// authenticated. It is safe for concurrent use; the read-check-write
// sequences of CheckStoredSession, Login and Logout never interleave.
type Manager struct {
	mu            sync.Mutex
	store         Store
	authenticator Authenticator
	config        Config
	now           func() time.Time
	logger        *slog.Logger
	hooks         []TransitionHook
	fsm           *machine
	current       *Session
}

// New creates a new session manager with the given options.
// It panics when no Authenticator is configured. Without a Store the session
// lives in memory only.
//
//	m := session.New(
//	    session.WithAuthenticator(auth),
//	    session.WithStore(codec.Store(w, r)),
//	    session.WithLogger(log),
//	)
//	m.CheckStoredSession(ctx)
//	if res := m.Login(ctx, "admin@site.com", password); !res.Success {
//	    return res.Message
//	}
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
		now:    time.Now,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.authenticator == nil {
		panic("session: authenticator is required")
	}
	if m.store == nil {
		m.store = NewMemoryStore()
	}
	if m.config.Key == "" {
		m.config.Key = DefaultKey
	}
	if m.config.TTL <= 0 {
		m.config.TTL = DefaultTTL
	}

	m.fsm = newMachine(StateAuthenticating, m.hooks...)

	return m
}

// CheckStoredSession restores the session from the store. It is meant to run
// once at start-up and resolves the initial authenticating state.
func (m *Manager) CheckStoredSession(ctx context.Context) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fsm.can(eventCheck) {
		m.fire(eventCheck)
	}
	m.current = nil

	raw, err := m.store.Get(ctx, m.config.Key)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.logger.WarnContext(ctx, "discarding unreadable stored session",
				logger.Component("session"),
				logger.Error(err),
			)
			m.clearLocked(ctx)
		}
		m.fire(eventFail)
		return m.fsm.current
	}

	sess, err := decodeSession(raw)
	if err != nil {
		m.logger.WarnContext(ctx, "discarding corrupt stored session",
			logger.Component("session"),
			logger.Error(err),
		)
		m.clearLocked(ctx)
		m.fire(eventFail)
		return m.fsm.current
	}

	if sess.IsExpired(m.now()) {
		m.clearLocked(ctx)
		m.fire(eventExpire)
		m.fire(eventSettle)
		return m.fsm.current
	}

	m.current = sess
	m.fire(eventSucceed)
	return m.fsm.current
}

// Login authenticates the identifier/secret pair and persists a new session.
// A failed attempt leaves the existing session untouched.
//
// The Authenticator runs without the lock, so concurrent logins are not
// serialized. Each attempt settles the state when it returns: if one attempt
// fails while another is still in flight, the manager reports
// unauthenticated (IsLoading false) until the other completes. The last
// successful attempt owns the stored session.
func (m *Manager) Login(ctx context.Context, identifier, secret string) Result {
	m.mu.Lock()
	m.fire(eventLogin)
	m.mu.Unlock()

	identity, err := m.authenticator.Login(ctx, identifier, secret)
	if err == nil {
		err = identity.Validate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.logger.InfoContext(ctx, "login failed",
			logger.Component("session"),
			logger.Error(err),
		)
		m.settleFailureLocked(ctx)
		return Result{Message: MessageFor(err)}
	}

	sess := NewSession(identity.SessionUser(), identity.Token, m.now(), m.config.TTL)
	raw, err := encodeSession(sess)
	if err == nil {
		err = m.store.Set(ctx, m.config.Key, raw)
	}
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to persist session",
			logger.Component("session"),
			logger.Username(sess.User.Username),
			logger.Error(err),
		)
		m.settleFailureLocked(ctx)
		return Result{Message: MessageLoginFailed}
	}

	m.current = sess
	m.fire(eventSucceed)

	m.logger.InfoContext(ctx, "admin logged in",
		logger.Component("session"),
		logger.Username(sess.User.Username),
		logger.Role(sess.User.Role),
	)

	user := sess.User
	return Result{Success: true, User: &user}
}

// Logout clears the stored session. It is safe to call when already logged
// out. The state is unauthenticated afterwards even if the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	err := m.store.Clear(ctx, m.config.Key)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to clear stored session",
			logger.Component("session"),
			logger.Error(err),
		)
	}
	m.fire(eventLogout)
	return err
}

// Session returns a copy of the active session.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil, ErrSessionNotFound
	}
	if m.expireIfNeededLocked(ctx) {
		return nil, ErrSessionExpired
	}
	return m.current.clone(), nil
}

// User returns the authenticated user.
func (m *Manager) User(ctx context.Context) (User, bool) {
	sess, err := m.Session(ctx)
	if err != nil {
		return User{}, false
	}
	return sess.User, true
}

// Token returns the bearer token of the active session.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	sess, err := m.Session(ctx)
	if err != nil {
		return "", false
	}
	return sess.Token, true
}

// IsAuthenticated reports whether a valid, unexpired session is held.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	_, err := m.Session(ctx)
	return err == nil
}

// IsLoading is true while a stored-session check or a login is in flight.
func (m *Manager) IsLoading() bool {
	return m.State() == StateAuthenticating
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fsm.current
}

// Status returns the caller-facing view of the session.
func (m *Manager) Status(ctx context.Context) Status {
	sess, err := m.Session(ctx)
	st := Status{IsLoading: m.IsLoading()}
	if err == nil {
		st.User = &sess.User
		st.IsAuthenticated = true
	}
	return st
}

// expireIfNeededLocked drops the held session once it has expired.
func (m *Manager) expireIfNeededLocked(ctx context.Context) bool {
	if !m.current.IsExpired(m.now()) {
		return false
	}

	m.logger.InfoContext(ctx, "session expired",
		logger.Component("session"),
		logger.Username(m.current.User.Username),
	)

	m.current = nil
	m.clearLocked(ctx)
	if m.fsm.can(eventExpire) {
		m.fire(eventExpire)
		m.fire(eventSettle)
	}
	return true
}

// settleFailureLocked resolves an unsuccessful login: a still valid session
// is restored, otherwise the manager falls back to unauthenticated.
func (m *Manager) settleFailureLocked(ctx context.Context) {
	if m.current != nil && !m.current.IsExpired(m.now()) {
		m.fire(eventRestore)
		return
	}
	if m.current != nil {
		m.current = nil
		m.clearLocked(ctx)
	}
	m.fire(eventFail)
}

func (m *Manager) clearLocked(ctx context.Context) {
	if err := m.store.Clear(ctx, m.config.Key); err != nil {
		m.logger.ErrorContext(ctx, "failed to clear stored session",
			logger.Component("session"),
			logger.Error(err),
		)
	}
}

// fire applies a lifecycle event. Invalid events are logged and ignored.
func (m *Manager) fire(ev event) {
	if err := m.fsm.fire(ev); err != nil {
		m.logger.Debug("ignored session event",
			logger.Component("session"),
			logger.State(string(m.fsm.current)),
			logger.Error(err),
		)
	}
}
