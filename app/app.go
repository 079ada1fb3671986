package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-redis/redis/v8"
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/cookie"
	"github.com/xy-planning-network/sik/http/middleware"
	"github.com/xy-planning-network/sik/http/resp"
	"github.com/xy-planning-network/sik/http/router"
	"github.com/xy-planning-network/sik/http/session"
	"github.com/xy-planning-network/sik/loader"
	"github.com/xy-planning-network/sik/logger"
)

// An App is a sik app: a router with the standard middlewares
// and the endpoints of every API module in the project mounted on it.
type App struct {
	*router.Router

	cfg       *Config
	closers   []io.Closer
	ctx       context.Context
	endpoints []loader.Endpoint
	env       sik.Environment
	extras    []middleware.Adapter
	idem      middleware.IdempotencyCacher
	l         logger.Logger
	origins   []string
	registry  *loader.Registry
	responder *resp.Responder
	sessions  session.SessionStorer
	srv       *http.Server
}

// New constructs an *App for the project cfg describes.
// Options are applied first, then defaults fill in whatever they left unset.
//
// A nil cfg returns an *App with no middlewares and no endpoints.
//
// Otherwise, New fails with a *ConfigurationError if cfg is not valid for the environment
// and with a *loader.DirectoryNotFoundError if the API directory cannot be read.
func New(cfg *Config, opts ...Option) (*App, error) {
	a := &App{env: sik.EnvVarOrEnv(environmentEnvVar, sik.Development)}
	followups := make([]OptFollowup, 0)

	for _, opt := range opts {
		fn, err := opt(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", sik.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if a.l == nil {
		a.l = defaultLogger(a.env)
	}

	if a.responder == nil {
		a.responder = resp.NewResponder(a.l)
	}

	if a.registry == nil {
		a.registry = loader.NewRegistry(a.responder)
	}

	if a.srv == nil {
		a.srv = defaultServer(a.ctx)
	}
	a.srv.Handler = a
	a.Router = router.New(a.env)

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", sik.ErrBadConfig, err)
		}
	}

	if cfg == nil {
		a.l.Debug("no config provided, app left unconfigured", nil)
		return a, nil
	}

	if err := cfg.Validate(a.env); err != nil {
		return nil, err
	}

	c := *cfg
	a.cfg = &c
	if err := a.configure(); err != nil {
		return nil, err
	}

	return a, nil
}

// configure wires middlewares, static assets and API modules onto the Router.
// Connections configure opens are closed again if it fails.
func (a *App) configure() (err error) {
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	jar, err := cookie.NewJar(a.cfg.cookieSecret(), a.env)
	if err != nil {
		return err
	}

	if a.sessions == nil {
		svc, err := defaultSessionStore(a.env, *a.cfg)
		if err != nil {
			return err
		}
		a.sessions = svc
		a.closers = append(a.closers, svc)
	}

	if a.idem == nil {
		var client *redis.Client
		if a.idem, client = defaultIdempotencyCache(*a.cfg); client != nil {
			a.closers = append(a.closers, client)
		}
	}

	a.BeforeRouting(
		middleware.MethodOverride(),
		middleware.CORS(a.origins...),
	)

	if a.env.IsProduction() {
		a.OnEveryRequest(middleware.ForceHTTPS(a.env))
	}

	a.OnEveryRequest(
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(a.l),
	)
	a.OnEveryRequest(a.extras...)
	a.OnEveryRequest(
		middleware.ParseJSON(middleware.DefaultBodyLimit),
		middleware.ParseForm(),
		middleware.ParseCookies(jar),
		middleware.InjectSession(a.sessions),
	)

	if a.env.IsDevelopment() {
		a.serveAssets()
	}

	eps, err := loader.LoadAPIs(a.cfg.apiPath(), a.registry)
	if err != nil {
		return err
	}

	a.Mount(eps...)
	a.HandleNotFound(http.NotFoundHandler())
	a.HandleMethodNotAllowed(http.HandlerFunc(methodNotAllowed))

	return nil
}

// serveAssets serves the public directory under router.DefaultAssetsPath
// and the favicon in it, if either exist.
func (a *App) serveAssets() {
	pub := a.cfg.publicPath()
	if !a.Static(router.DefaultAssetsPath, pub) {
		a.l.Debug(fmt.Sprintf("no public directory at %s", pub), nil)
		return
	}
	a.l.Debug(fmt.Sprintf("serving %s at %s", pub, router.DefaultAssetsPath), nil)

	if fav := filepath.Join(pub, "favicon.ico"); a.Favicon(fav) {
		a.l.Debug(fmt.Sprintf("serving %s at %s", fav, router.FaviconPath), nil)
	}
}

// Mount registers each Endpoint on the Router.
// Idempotent endpoints are wrapped with middleware.Idempotent.
func (a *App) Mount(endpoints ...loader.Endpoint) {
	for _, ep := range endpoints {
		route := router.Route{Path: ep.Path, Method: ep.Method, Handler: ep.Handler}
		if ep.Idempotent {
			route.Middlewares = []middleware.Adapter{middleware.Idempotent(a.idem)}
		}

		a.Handle(route)
		a.endpoints = append(a.endpoints, ep)
		a.l.Debug(fmt.Sprintf("mounted %s", ep), nil)
	}
}

// Endpoints lists every Endpoint mounted on the *App in the order they were mounted.
func (a *App) Endpoints() []loader.Endpoint {
	eps := make([]loader.Endpoint, len(a.endpoints))
	copy(eps, a.endpoints)
	return eps
}

func (a *App) Addr() string                            { return a.srv.Addr }
func (a *App) Env() sik.Environment                    { return a.env }
func (a *App) EmitLogger() logger.Logger               { return a.l }
func (a *App) EmitRegistry() *loader.Registry          { return a.registry }
func (a *App) EmitResponder() *resp.Responder          { return a.responder }
func (a *App) EmitSessionStore() session.SessionStorer { return a.sessions }

// Guide begins the web server.
//
// These, and (*App).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (a *App) Guide() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.l.Info(fmt.Sprintf("running web server at %s", a.srv.Addr), nil)
		if err := a.srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("could not listen: %w", err)
			return
		}

		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.l.Error(err.Error(), &logger.LogContext{Error: err})
			return err
		}

		return nil

	case <-ctx.Done():
		a.l.Info("received shutdown signal", nil)
		return a.Shutdown()
	}
}

// Shutdown shutdowns the web server
// and closes the connections to Redis, if any.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.l.Info("shutting down web server", nil)
	err := a.srv.Shutdown(shutdownCtx)
	a.close()

	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	a.l.Info("web server shutdown successfully", nil)
	return nil
}

// close closes every connection the *App opened.
func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.l.Warn(fmt.Sprintf("could not close connection: %s", err), &logger.LogContext{Error: err})
		}
	}
	a.closers = nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
