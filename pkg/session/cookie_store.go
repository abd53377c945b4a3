package session

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const minCookieSecretLength = 32

var (
	// ErrNoCookieSecret indicates no secret was supplied for cookie encryption
	ErrNoCookieSecret = errors.New("session.no_cookie_secret")

	// ErrCookieSecretTooShort indicates a secret shorter than 32 bytes
	ErrCookieSecretTooShort = errors.New("session.cookie_secret_too_short")
)

// CookieConfig holds the settings of the encrypted cookie store.
type CookieConfig struct {
	// Secrets is a comma separated list; the first one encrypts, all of them decrypt.
	Secrets  string        `env:"SESSION_COOKIE_SECRETS"`
	Path     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"SESSION_COOKIE_DOMAIN"`
	Secure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	SameSite http.SameSite `env:"SESSION_COOKIE_SAME_SITE" envDefault:"2"` // 2 = SameSiteLaxMode
}

func (c CookieConfig) secrets() []string {
	parts := strings.Split(c.Secrets, ",")
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CookieCodec encrypts session records into browser-session cookies.
// Cookies are written without Max-Age, so the browser drops them when the
// browsing context ends regardless of the record's own expiry.
type CookieCodec struct {
	secrets []string
	cfg     CookieConfig
}

// NewCookieCodec validates the secrets and builds a codec.
func NewCookieCodec(cfg CookieConfig) (*CookieCodec, error) {
	secrets := cfg.secrets()
	if len(secrets) == 0 {
		return nil, ErrNoCookieSecret
	}
	for i, s := range secrets {
		if len(s) < minCookieSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrCookieSecretTooShort, i, len(s), minCookieSecretLength)
		}
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &CookieCodec{secrets: secrets, cfg: cfg}, nil
}

// Factory returns a StoreFactory producing cookie stores.
func (c *CookieCodec) Factory() StoreFactory {
	return func(w http.ResponseWriter, r *http.Request) Store {
		return c.Store(w, r)
	}
}

// Store binds the codec to one request/response pair.
func (c *CookieCodec) Store(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{codec: c, w: w, r: r, written: make(map[string]*string)}
}

func (c *CookieCodec) encrypt(value string) (string, error) {
	gcm, err := newGCM(c.secrets[0])
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// nonce is prepended so the value is self-contained
	sealed := gcm.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *CookieCodec) decrypt(encoded string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCorruptSession
	}

	// every secret is tried to keep cookies readable across key rotation
	for _, secret := range c.secrets {
		gcm, err := newGCM(secret)
		if err != nil {
			continue
		}
		if len(sealed) < gcm.NonceSize() {
			return "", ErrCorruptSession
		}
		nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
		if plain, err := gcm.Open(nil, nonce, ciphertext, nil); err == nil {
			return string(plain), nil
		}
	}
	return "", ErrCorruptSession
}

func newGCM(secret string) (cipher.AEAD, error) {
	// AES-256 needs exactly 32 bytes
	block, err := aes.NewCipher([]byte(secret[:32]))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// CookieStore implements Store on top of an encrypted cookie per key.
// Writes made during the request are visible to later reads of the same store.
type CookieStore struct {
	codec   *CookieCodec
	w       http.ResponseWriter
	r       *http.Request
	written map[string]*string // nil value marks a cleared slot
}

func (s *CookieStore) Get(ctx context.Context, key string) (string, error) {
	if v, ok := s.written[key]; ok {
		if v == nil {
			return "", ErrSessionNotFound
		}
		return *v, nil
	}

	c, err := s.r.Cookie(key)
	if err != nil || c.Value == "" {
		return "", ErrSessionNotFound
	}
	return s.codec.decrypt(c.Value)
}

func (s *CookieStore) Set(ctx context.Context, key, value string) error {
	encrypted, err := s.codec.encrypt(value)
	if err != nil {
		return err
	}

	http.SetCookie(s.w, s.cookie(key, encrypted, 0))
	s.written[key] = &value
	return nil
}

func (s *CookieStore) Clear(ctx context.Context, key string) error {
	http.SetCookie(s.w, s.cookie(key, "", -1))
	s.written[key] = nil
	return nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	cfg := s.codec.cfg
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	}
}
