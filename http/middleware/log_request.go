package middleware

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/logger"
)

// LogMaskVal replaces the values of sensitive query params in logs.
const LogMaskVal = "xxxxxx"

// maskedParams are query params whose values never reach a log.
var maskedParams = []string{"password", "token", "secret"}

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger,
// once the next handler returns.
// The status code, bytes written, duration and request ID travel in the log context.
//
// LogRequest scrubs the values for these query params:
//   - password
//   - token
//   - secret
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, p := range maskedParams {
				if q.Has(p) {
					q.Set(p, LogMaskVal)
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(sik.IpAddrKey).(string); ok && ip != "" {
				strs = append([]string{ip}, strs...)
			}

			m := httpsnoop.CaptureMetrics(h, w, r)

			data := map[string]any{
				"status":      m.Code,
				"bytes":       m.Written,
				"duration_ms": m.Duration.Milliseconds(),
			}
			if id := sik.RequestIDFromContext(r.Context()); id != "" {
				data["request_id"] = id
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Caller: logger.CurrentCaller(), Data: data})
		})
	}
}
