package loader

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/xy-planning-network/sik"
	"github.com/xy-planning-network/sik/http/resp"
)

// A Registry pairs the handler names API modules reference with the http.Handler serving them.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]http.Handler
	responder *resp.Responder
}

// NewRegistry constructs an empty *Registry.
// Static routes respond through rs; a nil rs uses resp.NewResponder(nil).
func NewRegistry(rs *resp.Responder) *Registry {
	if rs == nil {
		rs = resp.NewResponder(nil)
	}

	return &Registry{handlers: make(map[string]http.Handler), responder: rs}
}

// Register pairs name with h.
// Register fails if name is empty, h is nil or name is already taken.
func (reg *Registry) Register(name string, h http.Handler) error {
	if name == "" || h == nil {
		return fmt.Errorf("%w: handler name and handler are required", sik.ErrMissingData)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.handlers[name]; ok {
		return fmt.Errorf("%w: handler %q already registered", sik.ErrNotValid, name)
	}

	reg.handlers[name] = h
	return nil
}

// RegisterFunc is Register for an http.HandlerFunc.
func (reg *Registry) RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) error {
	if fn == nil {
		return reg.Register(name, nil)
	}

	return reg.Register(name, http.HandlerFunc(fn))
}

// Lookup retrieves the handler registered under name.
func (reg *Registry) Lookup(name string) (http.Handler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	h, ok := reg.handlers[name]
	return h, ok
}

// Names lists every registered name in sorted order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	names := make([]string, 0, len(reg.handlers))
	for name := range reg.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// static responds with body as JSON and status for every request.
func (reg *Registry) static(status int, body any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NOTE: Json responds with an error itself when encoding fails
		reg.responder.Json(w, r, resp.Code(status), resp.Data(body))
	})
}
