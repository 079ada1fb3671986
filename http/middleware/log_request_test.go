package middleware_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/middleware"
	"github.com/xy-planning-network/sik/logger"
	"github.com/xy-planning-network/sik/logger/loggertest"
)

func TestLogRequest(t *testing.T) {
	// Arrange + Act
	actual := middleware.LogRequest(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	for _, tc := range []struct {
		name     string
		method   string
		target   string
		ip       string
		expected string
	}{
		{"Zero-Value", http.MethodGet, "/", "", "GET /"},
		{"With-IP", http.MethodPost, "/", "8.8.8.8", "8.8.8.8 POST /"},
		{"With-Query-Params", http.MethodPut, "/api/widgets?param=true", "8.8.8.8", "8.8.8.8 PUT /api/widgets?param=true"},
		{"With-Query-Params-Hid", http.MethodGet, "/?param=true&password=hunter2", "", "GET /?param=true&password=" + middleware.LogMaskVal},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctrl := gomock.NewController(t)
			l := loggertest.NewMockLogger(ctrl)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(tc.method, "https://example.com"+tc.target, nil)
			r = r.Clone(context.WithValue(r.Context(), sik.RequestIDKey, "test-id"))
			if tc.ip != "" {
				r = r.Clone(context.WithValue(r.Context(), sik.IpAddrKey, tc.ip))
			}

			l.EXPECT().Info(tc.expected, gomock.Any()).Do(func(_ string, lc *logger.LogContext) {
				require.Equal(t, http.StatusTeapot, lc.Data["status"])
				require.Equal(t, int64(4), lc.Data["bytes"])
				require.Equal(t, "test-id", lc.Data["request_id"])
			})

			// Act
			middleware.LogRequest(l)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
				wx.WriteHeader(http.StatusTeapot)
				fmt.Fprint(wx, "test")
			})).ServeHTTP(w, r)

			// Assert
			require.Equal(t, http.StatusTeapot, w.Code)
			ctrl.Finish()
		})
	}
}
