package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/xy-planning-network/sik"
	"gopkg.in/yaml.v3"
)

// APIName labels the API directory in a *DirectoryNotFoundError.
const APIName = "API"

// An Endpoint describes a handler an API module declares.
type Endpoint struct {
	Module     string
	Source     string
	Method     string
	Path       string
	Idempotent bool
	Handler    http.Handler
}

// String renders e as e.g. "GET /api/test (test.yaml)".
func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Method, e.Path, filepath.Base(e.Source))
}

// A Manifest is the contents of an API module file.
type Manifest struct {
	Prefix string          `yaml:"prefix"`
	Routes []ManifestRoute `yaml:"routes"`
}

// A ManifestRoute declares one route of an API module.
// Exactly one of Handler or Body must be set.
type ManifestRoute struct {
	Method     string `yaml:"method"`
	Path       string `yaml:"path"`
	Handler    string `yaml:"handler"`
	Body       any    `yaml:"body"`
	Status     int    `yaml:"status"`
	Idempotent bool   `yaml:"idempotent"`
}

var methods = map[string]bool{
	http.MethodConnect: true,
	http.MethodDelete:  true,
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodPatch:   true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodTrace:   true,
}

// LoadAPIs reads every regular file in dir as an API module
// and resolves the routes each declares into Endpoints,
// in the order the files are listed and the routes are declared.
//
// Handlers named by routes are looked up in reg.
// A nil reg only allows routes with static bodies.
//
// LoadAPIs fails with a *DirectoryNotFoundError if dir cannot be read.
// A file that cannot be read, that is malformed or that declares an invalid route,
// fails the whole load with an error naming the file.
func LoadAPIs(dir string, reg *Registry) ([]Endpoint, error) {
	if reg == nil {
		reg = NewRegistry(nil)
	}

	paths, err := ListEntries(APIName, dir, Options{OnlyFiles: true})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string)
	endpoints := make([]Endpoint, 0, len(paths))
	for _, p := range paths {
		m, err := ReadManifest(p)
		if err != nil {
			return nil, err
		}

		eps, err := m.endpoints(p, reg)
		if err != nil {
			return nil, err
		}

		for _, ep := range eps {
			key := ep.Method + " " + ep.Path
			if other, ok := seen[key]; ok {
				return nil, fmt.Errorf("%w: %s: %s already declared in %s", sik.ErrNotValid, p, key, other)
			}
			seen[key] = p
		}

		endpoints = append(endpoints, eps...)
	}

	return endpoints, nil
}

// ReadManifest parses the API module at path.
// An empty file is a Manifest without routes.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %s: %s", sik.ErrNotExist, path, err)
	}
	defer f.Close()

	var m Manifest
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Manifest{}, fmt.Errorf("%w: %s: %s", sik.ErrNotValid, path, err)
	}

	return m, nil
}

// endpoints validates the routes of m and resolves their handlers.
func (m Manifest) endpoints(source string, reg *Registry) ([]Endpoint, error) {
	module := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	prefix := strings.TrimSuffix(m.Prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("%w: %s: prefix %q must begin with /", sik.ErrNotValid, source, m.Prefix)
	}

	eps := make([]Endpoint, 0, len(m.Routes))
	for i, route := range m.Routes {
		ep, err := route.endpoint(prefix, reg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: route %d", err, source, i)
		}

		ep.Module, ep.Source = module, source
		eps = append(eps, ep)
	}

	return eps, nil
}

func (route ManifestRoute) endpoint(prefix string, reg *Registry) (Endpoint, error) {
	method := strings.ToUpper(route.Method)
	if method == "" {
		method = http.MethodGet
	}

	if !methods[method] {
		return Endpoint{}, fmt.Errorf("%w: unknown method %q", sik.ErrNotValid, route.Method)
	}

	if !strings.HasPrefix(route.Path, "/") {
		return Endpoint{}, fmt.Errorf("%w: path %q must begin with /", sik.ErrNotValid, route.Path)
	}

	if route.Idempotent && method != http.MethodPost {
		return Endpoint{}, fmt.Errorf("%w: only POST routes can be idempotent", sik.ErrNotValid)
	}

	ep := Endpoint{Method: method, Path: prefix + route.Path, Idempotent: route.Idempotent}
	switch {
	case route.Handler != "" && route.Body != nil:
		return Endpoint{}, fmt.Errorf("%w: handler and body are mutually exclusive", sik.ErrNotValid)

	case route.Handler != "":
		h, ok := reg.Lookup(route.Handler)
		if !ok {
			return Endpoint{}, fmt.Errorf("%w: no handler registered as %q", sik.ErrNotExist, route.Handler)
		}
		ep.Handler = h

	case route.Body != nil:
		status := route.Status
		if status == 0 {
			status = http.StatusOK
		}

		if status < 100 || status > 599 {
			return Endpoint{}, fmt.Errorf("%w: status %d", sik.ErrNotValid, route.Status)
		}

		if _, err := json.Marshal(route.Body); err != nil {
			return Endpoint{}, fmt.Errorf("%w: body: %s", sik.ErrNotValid, err)
		}
		ep.Handler = reg.static(status, route.Body)

	default:
		return Endpoint{}, fmt.Errorf("%w: one of handler or body is required", sik.ErrMissingData)
	}

	return ep, nil
}
