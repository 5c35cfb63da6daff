package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/graph"
	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/resolve"
)

// Module is the interface all back-end modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Request carries everything a generator handler needs for one invocation:
// the node being executed and its resolved upstream inputs.
type Request struct {
	Node   *graph.Node
	Inputs resolve.Inputs
}

// Prompt returns the effective text prompt for the request: the aggregated
// "text" input when wired, else the node's local prompt field.
func (req *Request) Prompt() string {
	if vals, ok := req.Inputs["text"]; ok {
		parts := make([]string, 0, len(vals))
		for _, v := range vals {
			parts = append(parts, fmt.Sprint(v))
		}
		return strings.Join(parts, "\n")
	}
	s, _ := req.Node.String("prompt")
	return s
}

// GeneratorFunc produces a node's raw output value. The executor normalizes
// whatever comes back; handlers are free to return strings, lists, or
// records in whatever shape their back-end produces.
type GeneratorFunc func(ctx context.Context, req *Request) (any, error)

// RegisteredGenerator holds the compiled Go parts of one node kind's handler.
type RegisteredGenerator struct {
	Fn GeneratorFunc
}

// Registry holds the registered generator handlers for one application
// instance.
type Registry struct {
	generators map[string]*RegisteredGenerator
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{generators: make(map[string]*RegisteredGenerator)}
}

// RegisterGenerator registers the handler for a node kind. Registering the
// same kind twice is a programmer error.
func (r *Registry) RegisterGenerator(kind string, g *RegisteredGenerator) {
	if _, exists := r.generators[kind]; exists {
		panic(fmt.Sprintf("generator for node kind '%s' already registered", kind))
	}
	slog.Debug("Registering generator handler.", "kind", kind)
	r.generators[kind] = g
}

// Generator returns the handler registered for a node kind.
func (r *Registry) Generator(kind string) (*RegisteredGenerator, bool) {
	g, ok := r.generators[kind]
	return g, ok
}

// Validate performs a parity check between the handle manifests and the
// registered Go handlers: every declared node kind must have a handler with
// a non-nil function. All problems are collected before reporting.
func (r *Registry) Validate(ctx context.Context, handles *handle.Registry) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string
	for _, kind := range handles.Kinds() {
		g, ok := r.generators[kind]
		if !ok {
			errs = append(errs, fmt.Sprintf("node kind '%s': manifest declared but no generator registered", kind))
			continue
		}
		if g.Fn == nil {
			errs = append(errs, fmt.Sprintf("node kind '%s': registered generator has no handler function", kind))
		}
	}
	for kind := range r.generators {
		if _, ok := handles.Kind(kind); !ok {
			logger.Warn("Generator registered for undeclared node kind.", "kind", kind)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
