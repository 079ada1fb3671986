package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/middleware"
)

func TestClientIP(t *testing.T) {
	for _, tc := range []struct {
		name     string
		header   string
		val      string
		expected string
	}{
		{"No-Header", "", "", "192.0.2.1"},
		{"Only-Private-IP", "X-Forwarded-For", "192.168.0.1", "192.0.2.1"},
		{"Only-Shared-IP", "X-Forwarded-For", "100.64.1.1", "192.0.2.1"},
		{"Only-Public-IP", "X-Forwarded-For", "1.1.1.1", "1.1.1.1"},
		{"Garbage", "X-Forwarded-For", "not-an-ip", "192.0.2.1"},
		{"Get-Before-Proxy", "X-Real-Ip", "10.0.0.1, 1.1.1.1", "1.1.1.1"},
		{"Get-Last-Public", "X-Real-Ip", "10.255.255.255,8.8.8.8,1.1.1.1,172.16.0.0", "1.1.1.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
			if tc.header != "" {
				r.Header.Set(tc.header, tc.val)
			}

			// Act + Assert
			require.Equal(t, tc.expected, middleware.ClientIP(r))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("X-Forwarded-For", "8.8.8.8")

	// Act
	middleware.InjectIPAddress()(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		// Assert
		require.Equal(t, "8.8.8.8", rx.Context().Value(sik.IpAddrKey))
	})).ServeHTTP(w, r)
}
