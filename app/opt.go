package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/middleware"
	"github.com/xy-planning-network/sik/http/resp"
	"github.com/xy-planning-network/sik/http/session"
	"github.com/xy-planning-network/sik/loader"
	"github.com/xy-planning-network/sik/logger"
	"golang.org/x/time/rate"
)

// An Option configures an *App either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some Options require data set by others or by defaults
// and thus an OptFollowup can be returned in order to be called at a later time
// when that data is available.
//
// WithEnv is an example of the first.
// An unexported field on the passed in *App is updated with the enclosed value.
//
// WithHandler is an example of the second.
// The handler is registered only once the *App has a *loader.Registry.
type Option func(a *App) (OptFollowup, error)
type OptFollowup func() error

// WithContext exposes the provided context.Context to the web server
// as the base context of every request.
func WithContext(ctx context.Context) Option {
	return func(a *App) (OptFollowup, error) {
		a.ctx = ctx
		return nil, nil
	}
}

// WithCORS allows cross-origin requests from origins.
func WithCORS(origins ...string) Option {
	return func(a *App) (OptFollowup, error) {
		a.origins = append(a.origins, origins...)
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(env string) Option {
	return func(a *App) (OptFollowup, error) {
		e := sik.Environment(env)
		if err := e.Valid(); err != nil {
			e = sik.EnvVarOrEnv(environmentEnvVar, sik.Development)
		}

		a.env = e
		return nil, nil
	}
}

// WithHandler constructs a followup option that, when called,
// registers h under name for API modules to reference.
func WithHandler(name string, h http.Handler) Option {
	return func(a *App) (OptFollowup, error) {
		return func() error { return a.registry.Register(name, h) }, nil
	}
}

// WithIdempotencyCache sets where responses to idempotent endpoints are saved.
func WithIdempotencyCache(c middleware.IdempotencyCacher) Option {
	return func(a *App) (OptFollowup, error) {
		if c == nil {
			return nil, fmt.Errorf("%w: idempotency cache", sik.ErrMissingData)
		}

		a.idem = c
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the sik app.
func WithLogger(l logger.Logger) Option {
	return func(a *App) (OptFollowup, error) {
		a.l = l
		return nil, nil
	}
}

// WithMiddleware appends adpts to those run on every request,
// after logging and before parsing the request body.
func WithMiddleware(adpts ...middleware.Adapter) Option {
	return func(a *App) (OptFollowup, error) {
		a.extras = append(a.extras, adpts...)
		return nil, nil
	}
}

// WithPort constructs a followup option that, when called,
// sets the port the web server listens on.
func WithPort(port string) Option {
	return func(a *App) (OptFollowup, error) {
		if port == "" {
			return nil, fmt.Errorf("%w: port", sik.ErrMissingData)
		}

		return func() error {
			host, _, err := net.SplitHostPort(a.srv.Addr)
			if err != nil {
				host = DefaultHost
			}

			a.srv.Addr = net.JoinHostPort(host, port)
			return nil
		}, nil
	}
}

// WithRateLimit limits each client to limit requests per second, with bursts of up to burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(a *App) (OptFollowup, error) {
		a.extras = append(a.extras, middleware.RateLimit(middleware.NewVisitors(limit, burst)))
		return nil, nil
	}
}

// WithRegistry sets the *loader.Registry handlers named by API modules are looked up in.
func WithRegistry(reg *loader.Registry) Option {
	return func(a *App) (OptFollowup, error) {
		if reg == nil {
			return nil, fmt.Errorf("%w: registry", sik.ErrMissingData)
		}

		a.registry = reg
		return nil, nil
	}
}

// WithResponder exposes the *resp.Responder to the sik app.
func WithResponder(r *resp.Responder) Option {
	return func(a *App) (OptFollowup, error) {
		a.responder = r
		return nil, nil
	}
}

// WithServer exposes the *http.Server to the sik app.
// The *App sets itself as the server's Handler.
func WithServer(s *http.Server) Option {
	return func(a *App) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: server", sik.ErrMissingData)
		}

		a.srv = s
		return nil, nil
	}
}

// WithSessionStore exposes the session.SessionStorer to the sik app
// in place of the one built from the Config.
func WithSessionStore(store session.SessionStorer) Option {
	return func(a *App) (OptFollowup, error) {
		a.sessions = store
		return nil, nil
	}
}
