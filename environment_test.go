package sik_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
)

func TestEnvironmentValid(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input sik.Environment
		ok    bool
	}{
		{"Zero-Value", "", false},
		{"Lowercase", "production", false},
		{"Development", sik.Development, true},
		{"Production", sik.Production, true},
		{"Testing", sik.Testing, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Valid()
			if tc.ok {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, sik.ErrNotValid)
		})
	}
}

func TestEnvironmentSecureCookies(t *testing.T) {
	require.False(t, sik.Development.SecureCookies())
	require.False(t, sik.Testing.SecureCookies())
	require.True(t, sik.Production.SecureCookies())
	require.True(t, sik.Staging.SecureCookies())
}

func TestEnvVarOrEnv(t *testing.T) {
	key := "SIK_TEST_ENVIRONMENT"

	// Arrange + Act + Assert
	require.Equal(t, sik.Development, sik.EnvVarOrEnv(key, sik.Development))

	// Arrange
	t.Setenv(key, "production")

	// Act + Assert
	require.Equal(t, sik.Production, sik.EnvVarOrEnv(key, sik.Development))

	// Arrange
	t.Setenv(key, "not-an-env")

	// Act + Assert
	require.Equal(t, sik.Testing, sik.EnvVarOrEnv(key, sik.Testing))
}

func TestEnvVarOr(t *testing.T) {
	key := "SIK_TEST_VAR"

	require.True(t, sik.EnvVarOrBool(key, true))
	require.Equal(t, 7, sik.EnvVarOrInt(key, 7))
	require.Equal(t, time.Second, sik.EnvVarOrDuration(key, time.Second))
	require.Equal(t, "def", sik.EnvVarOrString(key, "def"))

	t.Setenv(key, "FALSE")
	require.False(t, sik.EnvVarOrBool(key, true))
	require.Equal(t, 7, sik.EnvVarOrInt(key, 7))

	t.Setenv(key, "42")
	require.Equal(t, 42, sik.EnvVarOrInt(key, 7))
	require.Equal(t, "42", sik.EnvVarOrString(key, "def"))

	t.Setenv(key, "90s")
	require.Equal(t, 90*time.Second, sik.EnvVarOrDuration(key, time.Second))
}
