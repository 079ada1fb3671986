package router

import (
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/middleware"
)

const (
	// DefaultAssetsPath is the URL prefix public assets are served under.
	DefaultAssetsPath = "/assets/"

	// FaviconPath is the URL favicons are served at.
	FaviconPath = "/favicon.ico"
)

// A Route maps a path and HTTP method to an [http.Handler].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []middleware.Adapter
}

// Router routes requests to the handlers registered on it
// after running them through the adapters every request passes through.
type Router struct {
	Env           sik.Environment
	beforeRouting []middleware.Adapter
	everyReqStack []middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
func New(env sik.Environment) *Router {
	return &Router{Env: env, r: mux.NewRouter()}
}

// BeforeRouting appends the middlewares to those run ahead of matching a request to a [Route],
// e.g., to rewrite the request's method.
func (r *Router) BeforeRouting(middlewares ...middleware.Adapter) {
	r.beforeRouting = append(r.beforeRouting, middlewares...)
}

// Favicon serves the file at path for requests to [FaviconPath].
// Favicon registers nothing when path does not point at a regular file.
func (r *Router) Favicon(path string) bool {
	if fi, err := os.Stat(path); err != nil || !fi.Mode().IsRegular() {
		return false
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, path)
	})

	r.r.Handle(FaviconPath, middleware.Chain(h, append(r.everyReqStack, cacheControlMiddleware())...)).
		Methods(http.MethodGet, http.MethodHead)
	return true
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.Handler] as the default
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.Handler) {
	r.r.NotFoundHandler = middleware.Chain(
		middleware.ReportPanic(r.Env)(handler),
		r.everyReqStack...,
	)
}

// HandleMethodNotAllowed sets the provided [http.Handler] as the default
// for when a registered Route matches a request's path but not its method.
func (r *Router) HandleMethodNotAllowed(handler http.Handler) {
	r.r.MethodNotAllowedHandler = middleware.Chain(
		middleware.ReportPanic(r.Env)(handler),
		r.everyReqStack...,
	)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(middlewares)+len(route.Middlewares))
		mws = append(mws, r.everyReqStack...)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)

		method := route.Method
		if method == "" {
			method = http.MethodGet
		}

		handler := middleware.Chain(middleware.ReportPanic(r.Env)(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(strings.ToUpper(method))
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
//
// Only Routes registered after calling OnEveryRequest pick up the middlewares.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	middleware.Chain(r.r, r.beforeRouting...).ServeHTTP(w, req)
}

// Static serves the files found in dir for requests whose path begins with prefix.
// Static registers nothing when dir is not a directory.
func (r *Router) Static(prefix, dir string) bool {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return false
	}

	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	fs := http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))
	r.r.PathPrefix(prefix).Handler(middleware.Chain(fs, append(r.everyReqStack, cacheControlMiddleware())...))
	return true
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/users
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		everyReqStack: r.everyReqStack,
	}
}

// Walk calls fn with the path template and methods of every Route registered on the Router.
func (r *Router) Walk(fn func(path string, methods []string)) error {
	return r.r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}

		methods, _ := route.GetMethods()
		fn(path, methods)
		return nil
	})
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "max-age=2592000") // 30 days
			handler.ServeHTTP(w, r)
		})
	}
}
