package app_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/app"
)

func TestConfigValidate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		cfg      app.Config
		env      sik.Environment
		expected string
	}{
		{"No-Root", app.Config{}, sik.Development, "Root"},
		{"No-Root-Production", app.Config{CookieSecret: "c", SessionSecret: "s"}, sik.Production, "Root"},
		{"Development-No-Secrets", app.Config{Root: "."}, sik.Development, ""},
		{"Staging-No-Secrets", app.Config{Root: "."}, sik.Staging, ""},
		{"Production-No-Cookie-Secret", app.Config{Root: ".", SessionSecret: "s"}, sik.Production, "CookieSecret"},
		{"Production-No-Session-Secret", app.Config{Root: ".", CookieSecret: "c"}, sik.Production, "SessionSecret"},
		{"Production", app.Config{Root: ".", CookieSecret: "c", SessionSecret: "s"}, sik.Production, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			err := tc.cfg.Validate(tc.env)

			// Assert
			if tc.expected == "" {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, sik.ErrBadConfig)

			var ce *app.ConfigurationError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tc.expected, ce.Field)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	// Arrange
	t.Setenv("APP_ROOT", "/srv/app")
	t.Setenv("COOKIE_SECRET", "cookie")
	t.Setenv("SESSION_SECRET", "session")
	t.Setenv("SESSION_NAME", "name")
	t.Setenv("SESSION_ENCRYPT_KEY", "000102030405060708090a0b0c0d0e0f")
	t.Setenv("API_PATH", "/srv/api")
	t.Setenv("PUBLIC_PATH", "/srv/public")
	t.Setenv("REDIS_URL", "redis://:hunter2@cache:6380/0")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("REDIS_MAX_IDLE", "3")

	expected := &app.Config{
		Root:          "/srv/app",
		CookieSecret:  "cookie",
		SessionSecret: "session",
		SessionName:   "name",

		SessionEncryptKey: "000102030405060708090a0b0c0d0e0f",

		Paths:         app.Paths{API: "/srv/api", Public: "/srv/public"},
		Redis:         app.Redis{Addr: "cache:6380", Password: "hunter2", MaxIdle: 3},
	}

	// Act
	actual := app.ConfigFromEnv()

	// Assert
	require.Equal(t, expected, actual)

	// Arrange
	t.Setenv("REDIS_URL", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "pass")

	// Act
	actual = app.ConfigFromEnv()

	// Assert
	require.Equal(t, app.Redis{Addr: "localhost:6379", Password: "pass", MaxIdle: 3}, actual.Redis)
}

func TestLoadConfig(t *testing.T) {
	// Arrange
	t.Setenv("APP_ROOT", "/from/env")
	t.Setenv("COOKIE_SECRET", "env-cookie")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("REDIS_URL", "")

	dir := t.TempDir()
	fp := filepath.Join(dir, "sik.yaml")
	require.Nil(t, os.WriteFile(fp, []byte(`
root: /from/file
sessionSecret: file-session
paths:
  api: /from/file/api
redis:
  addr: cache:6379
`), 0644))

	// Act
	actual, err := app.LoadConfig(fp)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "/from/file", actual.Root)
	require.Equal(t, "env-cookie", actual.CookieSecret)
	require.Equal(t, "file-session", actual.SessionSecret)
	require.Equal(t, "/from/file/api", actual.Paths.API)
	require.Equal(t, "cache:6379", actual.Redis.Addr)

	// Act
	_, err = app.LoadConfig(filepath.Join(dir, "missing.yaml"))

	// Assert
	require.ErrorIs(t, err, sik.ErrNotExist)

	// Arrange
	bad := filepath.Join(dir, "bad.yaml")
	require.Nil(t, os.WriteFile(bad, []byte("root: ["), 0644))

	// Act
	_, err = app.LoadConfig(bad)

	// Assert
	require.ErrorIs(t, err, sik.ErrNotValid)
}
