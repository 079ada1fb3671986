package loader_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/resp"
	"github.com/xy-planning-network/sik/loader"
	"github.com/xy-planning-network/sik/logger"
)

const testManifest = `
prefix: /api
routes:
  - path: /test
    body: {msg: It worked}
  - method: post
    path: /users
    handler: users.create
    idempotent: true
  - method: DELETE
    path: /users/{id}
    status: 204
    body: {}
`

func newRegistry(t *testing.T) *loader.Registry {
	t.Helper()

	reg := loader.NewRegistry(resp.NewResponder(logger.NewStdLogger(new(bytes.Buffer), logger.LogLevelDebug)))
	require.Nil(t, reg.RegisterFunc("users.create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	return reg
}

func writeModules(t *testing.T, modules map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range modules {
		require.Nil(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}

	return dir
}

func TestLoadAPIs(t *testing.T) {
	// Arrange
	dir := writeModules(t, map[string]string{
		"test.yaml":  testManifest,
		"empty.yaml": "",
		"other.json": `{"routes": [{"path": "/health", "body": "ok"}]}`,
	})
	require.Nil(t, os.Mkdir(filepath.Join(dir, "ignored"), 0755))

	// Act
	actual, err := loader.LoadAPIs(dir, newRegistry(t))

	// Assert
	require.Nil(t, err)
	require.Len(t, actual, 4)

	byRoute := make(map[string]loader.Endpoint)
	for _, ep := range actual {
		byRoute[ep.Method+" "+ep.Path] = ep
	}

	get, ok := byRoute["GET /api/test"]
	require.True(t, ok)
	require.Equal(t, "test", get.Module)
	require.Equal(t, filepath.Join(dir, "test.yaml"), get.Source)
	require.False(t, get.Idempotent)

	post, ok := byRoute["POST /api/users"]
	require.True(t, ok)
	require.True(t, post.Idempotent)

	_, ok = byRoute["DELETE /api/users/{id}"]
	require.True(t, ok)

	health, ok := byRoute["GET /health"]
	require.True(t, ok)
	require.Equal(t, "other", health.Module)
	require.Equal(t, "GET /health (other.json)", health.String())

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/api/test", nil)

	// Act
	get.Handler.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"msg":"It worked"}`, w.Body.String())

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "https://example.com/api/users", nil)

	// Act
	post.Handler.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "https://example.com/api/users/1", nil)

	// Act
	byRoute["DELETE /api/users/{id}"].Handler.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoadAPIsIdempotent(t *testing.T) {
	// Arrange
	dir := writeModules(t, map[string]string{"test.yaml": testManifest, "b.yaml": "routes: [{path: /b, body: b}]"})
	reg := newRegistry(t)
	routes := func(eps []loader.Endpoint) []string {
		out := make([]string, 0, len(eps))
		for _, ep := range eps {
			out = append(out, ep.String())
		}
		return out
	}

	// Act
	first, err := loader.LoadAPIs(dir, reg)
	require.Nil(t, err)
	second, err := loader.LoadAPIs(dir, reg)
	require.Nil(t, err)

	// Assert
	require.ElementsMatch(t, routes(first), routes(second))
}

func TestLoadAPIsNotFound(t *testing.T) {
	// Arrange
	dir := filepath.Join(t.TempDir(), "lib", "api")

	// Act
	_, err := loader.LoadAPIs(dir, nil)

	// Assert
	var dnf *loader.DirectoryNotFoundError
	require.True(t, errors.As(err, &dnf))
	require.Equal(t, loader.APIName, dnf.Name)
	require.Equal(t, dir, dnf.Path)
}

func TestLoadAPIsErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		manifest string
		expected error
	}{
		{"Malformed", "routes: [", sik.ErrNotValid},
		{"Unknown-Field", "routes: [{path: /x, body: x, colour: red}]", sik.ErrNotValid},
		{"Unknown-Handler", "routes: [{path: /x, handler: nobody}]", sik.ErrNotExist},
		{"Handler-And-Body", "routes: [{path: /x, handler: users.create, body: x}]", sik.ErrNotValid},
		{"Neither", "routes: [{path: /x}]", sik.ErrMissingData},
		{"Idempotent-GET", "routes: [{path: /x, body: x, idempotent: true}]", sik.ErrNotValid},
		{"Bad-Method", "routes: [{method: FETCH, path: /x, body: x}]", sik.ErrNotValid},
		{"Relative-Path", "routes: [{path: x, body: x}]", sik.ErrNotValid},
		{"Relative-Prefix", "prefix: api\nroutes: [{path: /x, body: x}]", sik.ErrNotValid},
		{"Bad-Status", "routes: [{path: /x, body: x, status: 700}]", sik.ErrNotValid},
		{"Non-String-Keys", "routes: [{path: /x, body: {1: one, 2: two}}]", sik.ErrNotValid},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			dir := writeModules(t, map[string]string{"bad.yaml": tc.manifest})

			// Act
			actual, err := loader.LoadAPIs(dir, newRegistry(t))

			// Assert
			require.Nil(t, actual)
			require.ErrorIs(t, err, tc.expected)
			require.Contains(t, err.Error(), "bad.yaml")
		})
	}
}

func TestLoadAPIsDuplicateRoute(t *testing.T) {
	// Arrange
	dir := writeModules(t, map[string]string{
		"a.yaml": "routes: [{path: /x, body: a}]",
		"b.yaml": "routes: [{path: /x, body: b}]",
	})

	// Act
	_, err := loader.LoadAPIs(dir, nil)

	// Assert
	require.ErrorIs(t, err, sik.ErrNotValid)
	require.Contains(t, err.Error(), "GET /x")
}
