package tjv

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// HandlePrefix starts every registry handle name.
const HandlePrefix = "tjv-handle-"

// Registry keeps compiled schemas under generated handle names so that hosts
// can refer to them by string. It is safe for concurrent use.
type Registry struct {
	c   *Compiler
	log *slog.Logger

	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry returns an empty registry whose schemas share one Compiler.
func NewRegistry(opts ...Option) *Registry {
	c := NewCompiler(opts...)
	return &Registry{c: c, log: c.log, schemas: map[string]*Schema{}}
}

// Compile compiles tokens and registers the schema under a new handle name.
func (r *Registry) Compile(tokens []any) (string, error) {
	s, err := r.c.Compile(tokens)
	if err != nil {
		return "", err
	}
	name := HandlePrefix + uuid.NewString()
	s.name = name

	r.mu.Lock()
	r.schemas[name] = s
	r.mu.Unlock()
	r.log.Debug("schema registered", slog.String("handle", name))
	return name, nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Validate validates v with the schema registered under name.
func (r *Registry) Validate(ctx context.Context, name string, v any) (any, error) {
	s, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegistryNotFound, name)
	}
	return s.Validate(ctx, v)
}

// Delete releases the handle and reports whether it existed.
func (r *Registry) Delete(name string) bool {
	r.mu.Lock()
	_, ok := r.schemas[name]
	delete(r.schemas, name)
	r.mu.Unlock()
	if ok {
		r.log.Debug("schema released", slog.String("handle", name))
	}
	return ok
}

// Names lists the registered handles in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

// Close drops every handle and releases the registry's pattern cache.
func (r *Registry) Close() {
	r.mu.Lock()
	n := len(r.schemas)
	r.schemas = map[string]*Schema{}
	r.mu.Unlock()
	r.c.Close()
	r.log.Debug("registry closed", slog.Int("released", n))
}
