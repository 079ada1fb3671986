package app

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/middleware"
	"github.com/xy-planning-network/sik/http/session"
	"github.com/xy-planning-network/sik/logger"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar = "LOG_LEVEL"

	// Project defaults
	appRootEnvVar    = "APP_ROOT"
	apiPathEnvVar    = "API_PATH"
	publicPathEnvVar = "PUBLIC_PATH"

	// Secrets
	cookieSecretEnvVar      = "COOKIE_SECRET"
	sessionSecretEnvVar     = "SESSION_SECRET"
	sessionEncryptKeyEnvVar = "SESSION_ENCRYPT_KEY"

	// Session defaults
	sessionNameEnvVar = "SESSION_NAME"
	sessionMaxAge     = 3600 * 24 * 7

	// Redis defaults
	redisURLEnvVar      = "REDIS_URL"
	redisPasswordEnvVar = "REDIS_PASSWORD"
	redisMaxIdleEnvVar  = "REDIS_MAX_IDLE"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = "3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
	shutdownTimeout           = 5 * time.Second
)

// defaultLogger constructs a logger.Logger configured for use in the application.
func defaultLogger(env sik.Environment) logger.Logger {
	return logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(logger.NewLogLevel(os.Getenv(logLevelEnvVar))),
	)
}

// defaultSessionStore constructs the session.Service used for storing session data.
//
// Sessions are kept in Redis when cfg points at a Redis server,
// otherwise in cookies.
func defaultSessionStore(env sik.Environment, cfg Config) (session.Service, error) {
	sc := session.Config{
		Env:         env,
		SessionName: cfg.sessionName(),
		Secret:      cfg.sessionSecret(),
		EncryptKey:  cfg.SessionEncryptKey,
	}

	args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
	if cfg.Redis.Addr != "" {
		args = append(args, session.WithRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.MaxIdle))
	}

	return session.NewStoreService(sc, args...)
}

// defaultIdempotencyCache constructs the IdempotencyCacher idempotent endpoints use.
// The *redis.Client returned is nil when the cache is kept in memory.
func defaultIdempotencyCache(cfg Config) (middleware.IdempotencyCacher, *redis.Client) {
	if cfg.Redis.Addr == "" {
		return middleware.NewIdemResMap(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		PoolSize: cfg.Redis.MaxIdle,
	})

	return middleware.NewRedisCache(client), client
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	host := sik.EnvVarOrString(hostEnvVar, DefaultHost)
	port := sik.EnvVarOrString(portEnvVar, DefaultPort)

	srv := &http.Server{
		Addr:         net.JoinHostPort(host, port),
		IdleTimeout:  sik.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  sik.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: sik.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}
