package cookie_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/cookie"
)

func TestNewJar(t *testing.T) {
	// Act
	jar, err := cookie.NewJar("", sik.Testing)

	// Assert
	require.ErrorIs(t, err, sik.ErrMissingData)
	require.Nil(t, jar)
}

func TestJarSetGet(t *testing.T) {
	// Arrange
	jar, err := cookie.NewJar("sik-default", sik.Production)
	require.Nil(t, err)
	w := httptest.NewRecorder()

	// Act
	require.Nil(t, jar.Set(w, "flavor", "oatmeal"))

	// Assert
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
	require.NotEqual(t, "oatmeal", cookies[0].Value)

	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.AddCookie(cookies[0])

	// Act
	val, err := jar.Get(r, "flavor")

	// Assert
	require.Nil(t, err)
	require.Equal(t, "oatmeal", val)
}

func TestJarGetErrors(t *testing.T) {
	// Arrange
	jar, err := cookie.NewJar("sik-default", sik.Testing)
	require.Nil(t, err)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	_, err = jar.Get(r, "missing")

	// Assert
	require.ErrorIs(t, err, http.ErrNoCookie)

	// Arrange
	r.AddCookie(&http.Cookie{Name: "forged", Value: "oatmeal"})

	// Act
	_, err = jar.Get(r, "forged")

	// Assert
	require.ErrorIs(t, err, sik.ErrNotValid)
}

func TestJarParse(t *testing.T) {
	// Arrange
	jar, err := cookie.NewJar("sik-default", sik.Testing)
	require.Nil(t, err)
	other, err := cookie.NewJar("other-secret", sik.Testing)
	require.Nil(t, err)

	w := httptest.NewRecorder()
	require.Nil(t, jar.Set(w, "signed", "yes"))
	require.Nil(t, other.Set(w, "foreign", "no"))

	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	r.AddCookie(&http.Cookie{Name: "plain", Value: "value"})

	// Act
	v := jar.Parse(r)

	// Assert
	require.Equal(t, map[string]string{"signed": "yes"}, v.Signed)
	require.Equal(t, "value", v.Plain["plain"])
	require.Contains(t, v.Plain, "foreign")
}

func TestJarDelete(t *testing.T) {
	// Arrange
	jar, err := cookie.NewJar("sik-default", sik.Testing)
	require.Nil(t, err)
	w := httptest.NewRecorder()

	// Act
	jar.Delete(w, "flavor")

	// Assert
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)
}

func TestFromContext(t *testing.T) {
	_, ok := cookie.FromContext(context.Background())
	require.False(t, ok)

	v := cookie.Values{Plain: map[string]string{"a": "b"}}
	actual, ok := cookie.FromContext(context.WithValue(context.Background(), sik.CookiesKey, v))
	require.True(t, ok)
	require.Equal(t, v, actual)
}
