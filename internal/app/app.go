package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/flowfile"
	"github.com/vk/mediaflowgo/internal/graph"
	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	handles  *handle.Registry
	graph    *graph.Graph
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and registry, the
// node-kind manifests loaded, and the flow graph materialized. Startup
// problems that indicate a broken build or configuration panic; main
// recovers and reports them.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	handles, err := handle.Load()
	if err != nil {
		// Embedded manifests failing to parse is a build defect.
		panic(fmt.Errorf("failed to load node kind manifests: %w", err))
	}
	logger.Debug("Node kind manifests loaded.", "kinds", len(handles.Kinds()))

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All generator modules registered.", "count", len(modules))

	if err := reg.Validate(ctx, handles); err != nil {
		// A kind without a handler is a mismatch between code and manifests.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	loader := flowfile.NewLoader(handles)
	g, err := loader.Load(ctx, appConfig.FlowPath)
	if err != nil {
		panic(fmt.Errorf("failed to load flow: %w", err))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		handles:  handles,
		graph:    g,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Graph returns the loaded flow graph. This is primarily for testing.
func (a *App) Graph() *graph.Graph {
	return a.graph
}
