package middleware

import (
	"context"
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/sik"
)

// ReportPanic encloses the env and returns a function that when called,
// wraps the passed in http.Handler in sentryhttp.Handle
// in order to recover and report panics.
//
// In development, panics are left alone so they surface in the terminal.
func ReportPanic(env sik.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.Handler) http.Handler {
		recovered := sh.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler.ServeHTTP(w, r)
			if m, ok := r.Context().Value(panickedKey{}).(*panicked); ok {
				m.returned = true
			}
		}))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := &panicked{ResponseWriter: w}
			recovered.ServeHTTP(m, r.WithContext(context.WithValue(r.Context(), panickedKey{}, m)))
			if !m.returned && !m.wrote {
				// NOTE: sentryhttp swallows the panic without responding
				w.WriteHeader(http.StatusInternalServerError)
			}
		})
	}
}

type panickedKey struct{}

// panicked tracks whether a handler returned and whether it got as far as writing a response.
type panicked struct {
	http.ResponseWriter
	returned bool
	wrote    bool
}

func (p *panicked) WriteHeader(code int) {
	p.wrote = true
	p.ResponseWriter.WriteHeader(code)
}

func (p *panicked) Write(b []byte) (int, error) {
	p.wrote = true
	return p.ResponseWriter.Write(b)
}
