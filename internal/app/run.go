package app

import (
	"context"
	"fmt"

	"github.com/vk/mediaflowgo/internal/assets"
	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/events"
	"github.com/vk/mediaflowgo/internal/executor"
)

// Run executes the loaded flow based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.HealthcheckPort > 0 {
		a.startHealthcheckServer(appConfig.HealthcheckPort)
	}

	if len(a.graph.Nodes) == 0 {
		a.logger.Warn("No nodes found in flow, execution not required.")
		return nil
	}

	emitter := events.Multi{events.LogEmitter{}}
	if appConfig.EventsURL != "" {
		sock, err := events.NewSocketEmitter(ctx, appConfig.EventsURL)
		if err != nil {
			return fmt.Errorf("configuring events emitter: %w", err)
		}
		emitter = append(emitter, sock)
	}
	defer emitter.Close()

	a.logger.Info("🚀 Starting flow execution...", "nodes", len(a.graph.Nodes), "edges", len(a.graph.Edges))
	exec := executor.New(a.graph, a.registry, a.handles, emitter)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.")

	if appConfig.OutDir != "" {
		store, err := assets.NewStore(appConfig.OutDir)
		if err != nil {
			return err
		}
		defer store.Close()
		saved, err := store.SaveOutputs(ctx, a.graph, a.handles)
		if err != nil {
			return fmt.Errorf("saving artifacts: %w", err)
		}
		a.logger.Info("💾 Artifacts saved.", "count", len(saved), "dir", appConfig.OutDir)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
