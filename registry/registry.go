// Package registry implements the transform registry: a process-wide,
// string-keyed catalog of operators, each registered with a metadata
// record and a dispatchable handler. The process-wide instance is
// brought up and torn down by explicit Init/Shutdown calls owned by the
// application shell, never by a static initializer.
package registry

import (
	"sync"

	"github.com/pkg/errors"
)

// Category groups operators for discovery/UI purposes; it carries no
// behavior of its own.
type Category string

const (
	CategoryBoolean     Category = "boolean"
	CategoryPeak        Category = "peak"
	CategoryAggregation Category = "aggregation"
)

// Metadata describes one registered operator.
type Metadata struct {
	Name                 string
	InputArity           int
	Category             Category
	SupportsCancellation bool
}

// Handler is an operator's dispatchable entry point. Inputs and the
// params value are passed through untyped; handlers are responsible for
// type-asserting their own expected shapes — a mismatch is a programmer
// error, not a data-driven failure, and handlers should panic rather than
// return a data-shaped error for it.
type Handler func(inputs []any, params any) (any, error)

type entry struct {
	meta    Metadata
	handler Handler
}

// Registry is a process-wide, string-keyed catalog of operators. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds name to the catalog with the given metadata and handler.
// Registering the same name twice replaces the prior entry — restarting
// an application shell is expected to re-register every operator from
// scratch.
func (r *Registry) Register(meta Metadata, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[meta.Name] = entry{meta: meta, handler: handler}
}

// Lookup returns the metadata registered under name.
func (r *Registry) Lookup(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.meta, ok
}

// Names returns every registered operator name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}

// Dispatch invokes the handler registered under name with inputs and
// params. Returns an error — not a panic — when name is unknown, since an
// unresolved operator name is a data-driven condition a caller (e.g. a
// saved workspace referencing a since-removed operator) can encounter
// without it being a programming mistake.
func (r *Registry) Dispatch(name string, inputs []any, params any) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("registry: no operator registered under name %q", name)
	}
	return e.handler(inputs, params)
}

var (
	globalMu sync.Mutex
	global   *Registry
)

// Init brings up the process-wide Registry. Calling Init twice without an
// intervening Shutdown replaces the prior instance.
func Init() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = New()
	return global
}

// Global returns the process-wide Registry. Panics if Init has not been
// called — a programmer error, since global state must never spring into
// existence implicitly.
func Global() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		panic("registry: Global() called before Init()")
	}
	return global
}

// Shutdown tears down the process-wide Registry, clearing Global's
// backing instance.
func Shutdown() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}
