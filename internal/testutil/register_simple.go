package testutil

import (
	"context"

	"github.com/vk/mediaflowgo/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers generator handlers for one or more node kinds.
type SimpleModule struct {
	Generators map[string]*registry.RegisteredGenerator
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for kind, g := range m.Generators {
		r.RegisterGenerator(kind, g)
	}
}

// StaticGenerator returns a handler that always produces the given value.
func StaticGenerator(v any) *registry.RegisteredGenerator {
	return &registry.RegisteredGenerator{
		Fn: func(ctx context.Context, req *registry.Request) (any, error) {
			return v, nil
		},
	}
}
