package session

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/boj/redistore"
	gorilla "github.com/gorilla/sessions"
	"github.com/xy-planning-network/sik"
)

const (
	defaultMaxAge  = 86400 // 1 day
	defaultMaxIdle = 10
)

// The SessionStorer defines methods for interacting with a Sessionable for the given *http.Request.
type SessionStorer interface {
	GetSession(r *http.Request) (Sessionable, error)
}

// A Service wraps a gorilla.Store to manage constructing a new one
// and accessing the sessions contained in it.
//
// Service implements SessionStorer.
type Service struct {
	// The authentication key.
	ak []byte

	// The encryption key; may be empty.
	ek []byte

	// The name this Service's sessions are stored under.
	// Also used as the name of the cookie.
	sn string

	// The environment the Service is operating within.
	env sik.Environment

	// The number of seconds a session is valid.
	maxAge int

	// how the Service actually implements storing sessions.
	store gorilla.Store
}

// A Config provides the values needed to construct a Service.
type Config struct {
	Env sik.Environment

	// The name sessions are stored under.
	// Also used as the name of the cookie.
	SessionName string

	// Secret authenticates session cookies.
	Secret string

	// Hex-encoded key for encrypting session cookies.
	// Optional; if set it must decode to 16, 24 or 32 bytes.
	EncryptKey string
}

func validateConfig(c Config) error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: Env %q", err, c.Env)
	}

	if c.SessionName == "" {
		return fmt.Errorf("%w: SessionName cannot be %q", sik.ErrMissingData, c.SessionName)
	}

	if c.Secret == "" {
		return fmt.Errorf("%w: Secret cannot be empty", sik.ErrMissingData)
	}

	return nil
}

// NewStoreService initiates a data store for user web sessions
// with the provided config.
// If no backing storage is provided through a functional option -
// like WithRedis - NewStoreService stores sessions in cookies.
func NewStoreService(cfg Config, opts ...ServiceOpt) (Service, error) {
	if err := validateConfig(cfg); err != nil {
		return Service{}, fmt.Errorf("%w: %s", sik.ErrBadConfig, err)
	}

	s := Service{
		ak:     []byte(cfg.Secret),
		env:    cfg.Env,
		maxAge: defaultMaxAge,
		sn:     cfg.SessionName,
	}

	if cfg.EncryptKey != "" {
		ek, err := hex.DecodeString(cfg.EncryptKey)
		if err != nil {
			return Service{}, fmt.Errorf("%w: encryption key is not valid: %s", sik.ErrBadConfig, err)
		}

		switch len(ek) {
		case 16, 24, 32:
			s.ek = ek
		default:
			return Service{}, fmt.Errorf("%w: encryption key must be 16, 24 or 32 bytes, is %d", sik.ErrBadConfig, len(ek))
		}
	}

	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", sik.ErrBadConfig, err)
		}
	}

	if s.store == nil {
		if err := WithCookie()(&s); err != nil {
			return Service{}, fmt.Errorf("%w: %s", sik.ErrBadConfig, err)
		}
	}

	return s, nil
}

// GetSession retrieves the Session for the *http.Request,
// or creates a brand new one.
func (s Service) GetSession(r *http.Request) (Sessionable, error) {
	session, err := s.store.Get(r, s.sn)
	if session == nil {
		return nil, err
	}

	return Session{s: session}, err
}

// Close releases the connection pool of a Service backed by Redis.
// Close is a no-op for a Service backed by cookies.
func (s Service) Close() error {
	if r, ok := s.store.(*redistore.RediStore); ok {
		return r.Close()
	}

	return nil
}

// keyPairs collects the keys the gorilla stores expect,
// omitting the encryption key when none was configured.
func (s Service) keyPairs() [][]byte {
	if len(s.ek) == 0 {
		return [][]byte{s.ak}
	}

	return [][]byte{s.ak, s.ek}
}

// A ServiceOpt configures the provided *Service,
// returning an error if unable to.
type ServiceOpt func(*Service) error

// WithCookie configures the Service to back session storage with cookies.
func WithCookie() ServiceOpt {
	return func(s *Service) error {
		c := gorilla.NewCookieStore(s.keyPairs()...)
		c.Options.Secure = s.env.SecureCookies()
		c.Options.HttpOnly = true
		c.MaxAge(s.maxAge)
		s.store = c
		return nil
	}
}

// WithMaxAge sets the time-to-live of a session.
//
// Call before other options so this value is available.
//
// Otherwise, the Service uses defaultMaxAge.
func WithMaxAge(secs int) ServiceOpt {
	return func(s *Service) error {
		s.maxAge = secs
		return nil
	}
}

// WithRedis configures the Service to back session storage with Redis.
//
// To authenticate to the Redis server, provide pass, otherwise its zero-value is acceptable.
// maxIdle sizes the connection pool; values below 1 use a default of 10.
//
// NewRediStore pings the server, so an unreachable Redis fails here.
func WithRedis(addr, pass string, maxIdle int) ServiceOpt {
	return func(s *Service) error {
		if maxIdle < 1 {
			maxIdle = defaultMaxIdle
		}

		r, err := redistore.NewRediStore(maxIdle, "tcp", addr, pass, s.keyPairs()...)
		if err != nil {
			return fmt.Errorf("failed initializing Redis at %s: %s", addr, err)
		}

		r.Options.Secure = s.env.SecureCookies()
		r.Options.HttpOnly = true
		r.SetMaxAge(s.maxAge)
		s.store = r
		return nil
	}
}
