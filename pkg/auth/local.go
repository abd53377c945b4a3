package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/siteadmin/pkg/logger"
	"github.com/dmitrymomot/siteadmin/pkg/session"
)

// LocalConfig points at the accounts file.
type LocalConfig struct {
	AccountsFile string `env:"AUTH_ACCOUNTS_FILE" envDefault:"accounts.yaml"`
}

// Account is one entry of the accounts file.
type Account struct {
	Email        string `yaml:"email"`
	FirstName    string `yaml:"first_name"`
	LastName     string `yaml:"last_name"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
}

type accountsFile struct {
	Accounts []Account `yaml:"accounts"`
}

// LocalAuthenticator verifies credentials against in-memory bcrypt hashes.
type LocalAuthenticator struct {
	accounts map[string]Account
	logger   *slog.Logger
}

type LocalOption func(*LocalAuthenticator)

func WithLocalLogger(l *slog.Logger) LocalOption {
	return func(a *LocalAuthenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewLocalAuthenticator indexes accounts by normalized email.
func NewLocalAuthenticator(accounts []Account, opts ...LocalOption) (*LocalAuthenticator, error) {
	a := &LocalAuthenticator{
		accounts: make(map[string]Account, len(accounts)),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	for i, acc := range accounts {
		email := normalizeEmail(acc.Email)
		if email == "" || acc.PasswordHash == "" {
			return nil, fmt.Errorf("%w: account %d needs email and password_hash", ErrInvalidAccounts, i)
		}
		if _, err := bcrypt.Cost([]byte(acc.PasswordHash)); err != nil {
			return nil, fmt.Errorf("%w: account %s: %w", ErrInvalidAccounts, email, err)
		}
		if _, ok := a.accounts[email]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, email)
		}
		acc.Email = email
		if acc.Role == "" {
			acc.Role = session.RoleEditor
		}
		a.accounts[email] = acc
	}
	return a, nil
}

// NewLocalAuthenticatorFromConfig loads cfg.AccountsFile.
func NewLocalAuthenticatorFromConfig(cfg LocalConfig, opts ...LocalOption) (*LocalAuthenticator, error) {
	accounts, err := LoadAccounts(cfg.AccountsFile)
	if err != nil {
		return nil, err
	}
	return NewLocalAuthenticator(accounts, opts...)
}

// LoadAccounts reads a YAML accounts file.
func LoadAccounts(path string) ([]Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidAccounts, err)
	}
	return ParseAccounts(data)
}

// ParseAccounts decodes the YAML accounts document.
func ParseAccounts(data []byte) ([]Account, error) {
	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Join(ErrInvalidAccounts, err)
	}
	return f.Accounts, nil
}

// HashPassword produces a hash for the accounts file.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements session.Authenticator.
func (a *LocalAuthenticator) Login(ctx context.Context, identifier, secret string) (*session.Identity, error) {
	email := normalizeEmail(identifier)
	acc, ok := a.accounts[email]
	if !ok {
		return nil, session.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(secret)); err != nil {
		return nil, session.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to issue token",
			logger.Component("auth"),
			logger.Error(err),
		)
		return nil, errors.Join(session.ErrAuthUnavailable, err)
	}

	return &session.Identity{
		Token: token,
		User: session.IdentityUser{
			Email:     acc.Email,
			FirstName: acc.FirstName,
			LastName:  acc.LastName,
			Role:      acc.Role,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
