package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/sik"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSecret signs cookies and sessions when no secret is configured.
	// It is refused in production.
	DefaultSecret = "sik-default"

	// DefaultSessionName names the session cookie when Config.SessionName is empty.
	DefaultSessionName = "sik-session"

	defaultAPIDir    = "lib/api"
	defaultPublicDir = "public"
)

// A Config describes the sik project an App serves.
//
// Only Root is required;
// in production, so are CookieSecret and SessionSecret.
type Config struct {
	// Root is the directory of the project.
	Root string `yaml:"root"`

	CookieSecret  string `yaml:"cookieSecret"`
	SessionSecret string `yaml:"sessionSecret"`

	// SessionEncryptKey is a hex-encoded 16, 24 or 32 byte key.
	// When set, session cookies are encrypted as well as signed.
	SessionEncryptKey string `yaml:"sessionEncryptKey"`

	// SessionName names the cookie sessions are tracked with.
	SessionName string `yaml:"sessionName"`

	Paths Paths `yaml:"paths"`
	Redis Redis `yaml:"redis"`
}

// Paths overrides where an App looks for parts of the project.
type Paths struct {
	// Public holds static assets; default: <Root>/public.
	Public string `yaml:"public"`

	// API holds API modules; default: <Root>/lib/api.
	API string `yaml:"api"`
}

// Redis points an App at a Redis server for sessions and idempotency keys.
// Without an Addr, sessions live in cookies and idempotency keys in memory.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	MaxIdle  int    `yaml:"maxIdle"`
}

// Validate checks c has every field required when running in env.
// Validate fails with a *ConfigurationError.
func (c *Config) Validate(env sik.Environment) error {
	if c.Root == "" {
		return &ConfigurationError{Field: "Root", Msg: "No project root specified in config."}
	}

	if !env.IsProduction() {
		return nil
	}

	if c.CookieSecret == "" {
		return &ConfigurationError{Field: "CookieSecret", Msg: "Cookie secret not specified. Default not allowed in production"}
	}

	if c.SessionSecret == "" {
		return &ConfigurationError{Field: "SessionSecret", Msg: "Session secret not specified. Default not allowed in production"}
	}

	return nil
}

func (c Config) apiPath() string {
	if c.Paths.API != "" {
		return c.Paths.API
	}

	return filepath.Join(c.Root, defaultAPIDir)
}

func (c Config) publicPath() string {
	if c.Paths.Public != "" {
		return c.Paths.Public
	}

	return filepath.Join(c.Root, defaultPublicDir)
}

func (c Config) cookieSecret() string  { return orDefault(c.CookieSecret, DefaultSecret) }
func (c Config) sessionSecret() string { return orDefault(c.SessionSecret, DefaultSecret) }
func (c Config) sessionName() string   { return orDefault(c.SessionName, DefaultSessionName) }

func orDefault(val, def string) string {
	if val == "" {
		return def
	}

	return val
}

// ConfigFromEnv builds a *Config from environment variables,
// including those set in a ".env" file in the working directory.
//
// REDIS_URL may be a "redis://" URL or a bare host:port.
func ConfigFromEnv() *Config {
	cfg := &Config{
		Root:          os.Getenv(appRootEnvVar),
		CookieSecret:  os.Getenv(cookieSecretEnvVar),
		SessionSecret: os.Getenv(sessionSecretEnvVar),
		SessionName:   os.Getenv(sessionNameEnvVar),

		SessionEncryptKey: os.Getenv(sessionEncryptKeyEnvVar),
		Paths: Paths{
			API:    os.Getenv(apiPathEnvVar),
			Public: os.Getenv(publicPathEnvVar),
		},
		Redis: Redis{
			Password: os.Getenv(redisPasswordEnvVar),
			MaxIdle:  sik.EnvVarOrInt(redisMaxIdleEnvVar, 0),
		},
	}

	if u := os.Getenv(redisURLEnvVar); u != "" {
		cfg.Redis.Addr = u
		if opt, err := redis.ParseURL(u); err == nil {
			cfg.Redis.Addr = opt.Addr
			if cfg.Redis.Password == "" {
				cfg.Redis.Password = opt.Password
			}
		}
	}

	return cfg
}

// LoadConfig builds a *Config from environment variables, cf. ConfigFromEnv,
// then overwrites them with any fields set in the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	cfg := ConfigFromEnv()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: config file %s: %s", sik.ErrNotExist, path, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%w: config file %s: %s", sik.ErrNotValid, path, err)
	}

	return cfg, nil
}
