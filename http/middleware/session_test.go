package middleware_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik/http/middleware"
	"github.com/xy-planning-network/sik/http/session"
)

func TestInjectSession(t *testing.T) {
	// Arrange + Act
	actual := middleware.InjectSession(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	var ok bool

	// Act
	middleware.InjectSession(failingStore{})(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok = middleware.SessionFromContext(rx.Context())
	})).ServeHTTP(w, r)

	// Assert
	require.False(t, ok)

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	var val session.Sessionable

	// Act
	middleware.InjectSession(session.NewStub())(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		val, ok = middleware.SessionFromContext(rx.Context())
	})).ServeHTTP(w, r)

	// Assert
	require.True(t, ok)
	require.NotNil(t, val)
}

type failingStore struct{}

func (failingStore) GetSession(*http.Request) (session.Sessionable, error) {
	return nil, errors.New("boom")
}
