// Package passthrough provides the generator handlers for input and preview
// node kinds. Neither calls a back-end: inputs surface the payload the user
// supplied locally, previews forward whatever reaches them.
package passthrough

import (
	"context"

	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/payload"
	"github.com/vk/mediaflowgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers handlers for every input and preview kind.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterGenerator("text-input", &registry.RegisteredGenerator{Fn: inputFor(handle.TypeText)})
	r.RegisterGenerator("image-input", &registry.RegisteredGenerator{Fn: inputFor(handle.TypeImage)})
	r.RegisterGenerator("video-input", &registry.RegisteredGenerator{Fn: inputFor(handle.TypeVideo)})
	r.RegisterGenerator("3d-input", &registry.RegisteredGenerator{Fn: inputFor(handle.TypeModel3D)})

	r.RegisterGenerator("preview-text", &registry.RegisteredGenerator{Fn: previewFor("text", handle.TypeText)})
	r.RegisterGenerator("preview-image", &registry.RegisteredGenerator{Fn: previewFor("image", handle.TypeImage)})
	r.RegisterGenerator("preview-video", &registry.RegisteredGenerator{Fn: previewFor("video", handle.TypeVideo)})
	r.RegisterGenerator("preview-3d", &registry.RegisteredGenerator{Fn: previewFor("model", handle.TypeModel3D)})
}

// inputFor publishes the best local value of the kind's semantic type.
func inputFor(t handle.Type) registry.GeneratorFunc {
	return func(ctx context.Context, req *registry.Request) (any, error) {
		return payload.Extract(req.Node.Data, t).Interface(), nil
	}
}

// previewFor forwards the wired input when present, else the local fallback.
func previewFor(handleID string, t handle.Type) registry.GeneratorFunc {
	return func(ctx context.Context, req *registry.Request) (any, error) {
		if v := req.Inputs.Value(handleID); v != nil {
			return v, nil
		}
		return payload.Extract(req.Node.Data, t).Interface(), nil
	}
}
