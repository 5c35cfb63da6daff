package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/events"
	"github.com/vk/mediaflowgo/internal/graph"
	"github.com/vk/mediaflowgo/internal/handle"
	"github.com/vk/mediaflowgo/internal/payload"
	"github.com/vk/mediaflowgo/internal/registry"
	"github.com/vk/mediaflowgo/internal/resolve"
	"github.com/vk/mediaflowgo/internal/schedule"
	"github.com/vk/mediaflowgo/internal/validate"
)

// NodeMissing pairs a node with its unsatisfied requirements.
type NodeMissing struct {
	NodeID  string
	Missing []validate.Missing
}

// ValidationError aborts a run before any node executes: at least one node
// has a required input that is neither wired nor locally supplied.
type ValidationError struct {
	Nodes []NodeMissing
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("flow is not ready to run:")
	for _, nm := range e.Nodes {
		for _, m := range nm.Missing {
			fmt.Fprintf(&sb, "\n- node %s: missing %s (%s)", nm.NodeID, m.Label, m.Key)
		}
	}
	return sb.String()
}

// Executor runs one flow graph to completion.
type Executor struct {
	graph   *graph.Graph
	reg     *registry.Registry
	handles *handle.Registry
	emitter events.Emitter
	runID   string
}

// New creates an executor for a single run of the given graph.
func New(g *graph.Graph, reg *registry.Registry, handles *handle.Registry, emitter events.Emitter) *Executor {
	if emitter == nil {
		emitter = events.LogEmitter{}
	}
	return &Executor{
		graph:   g,
		reg:     reg,
		handles: handles,
		emitter: emitter,
		runID:   fmt.Sprintf("run-%d", time.Now().UnixNano()),
	}
}

// Run executes the graph in scheduled order. It fails up front on a cyclic
// graph or on unsatisfied required inputs. A node failure mid-run skips all
// transitive dependents but lets independent branches finish; the first real
// failure is reported as the root cause.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("runID", e.runID)
	ctx = ctxlog.WithLogger(ctx, logger)

	order, err := schedule.Order(e.graph)
	if err != nil {
		return fmt.Errorf("scheduling flow: %w", err)
	}
	logger.Debug("Execution order computed.", "nodes", len(order))

	if verr := e.preflight(order); verr != nil {
		return verr
	}

	successors := successorIndex(e.graph)
	e.emit(ctx, events.Event{Type: events.RunStarted})

	failed := make(map[string]error)
	skipped := make(map[string]bool)

	for _, node := range order {
		if err := ctx.Err(); err != nil {
			e.emit(ctx, events.Event{Type: events.RunFailed, Error: err.Error()})
			return fmt.Errorf("run canceled: %w", err)
		}
		if skipped[node.ID] {
			logger.Warn("Skipping node due to upstream failure.", "nodeID", node.ID)
			e.emitNode(ctx, events.NodeSkipped, node, nil)
			continue
		}

		logger.Info("▶️ Starting node", "nodeID", node.ID, "kind", node.Kind)
		e.emitNode(ctx, events.NodeStarted, node, nil)

		if err := e.executeNode(ctx, node); err != nil {
			logger.Error("Node execution failed.", "nodeID", node.ID, "error", err)
			failed[node.ID] = err
			e.emitNode(ctx, events.NodeFailed, node, err)
			markDependents(node.ID, successors, skipped)
			continue
		}

		logger.Info("✅ Finished node", "nodeID", node.ID, "kind", node.Kind)
		e.emitNode(ctx, events.NodeFinished, node, nil)
	}

	if len(failed) > 0 {
		var failedIDs []string
		var rootCause error
		for _, node := range order {
			if err, ok := failed[node.ID]; ok {
				failedIDs = append(failedIDs, node.ID)
				if rootCause == nil {
					rootCause = err
				}
			}
		}
		runErr := fmt.Errorf("execution failed for %s: %w", strings.Join(failedIDs, ", "), rootCause)
		e.emit(ctx, events.Event{Type: events.RunFailed, Error: runErr.Error()})
		return runErr
	}

	e.emit(ctx, events.Event{Type: events.RunFinished})
	return nil
}

// preflight validates every node before anything executes.
func (e *Executor) preflight(order []*graph.Node) *ValidationError {
	var verr ValidationError
	for _, node := range order {
		if missing := validate.Check(node, e.graph); len(missing) > 0 {
			verr.Nodes = append(verr.Nodes, NodeMissing{NodeID: node.ID, Missing: missing})
		}
	}
	if len(verr.Nodes) > 0 {
		return &verr
	}
	return nil
}

// executeNode resolves inputs, invokes the generator, and publishes the
// normalized result. The result lands under the node's primary output handle
// id and, when that differs, under "output" as well.
func (e *Executor) executeNode(ctx context.Context, node *graph.Node) error {
	gen, ok := e.reg.Generator(node.Kind)
	if !ok || gen.Fn == nil {
		return fmt.Errorf("no generator registered for node kind '%s'", node.Kind)
	}

	inputs := resolve.Resolve(node.ID, e.graph)
	raw, err := gen.Fn(ctx, &registry.Request{Node: node, Inputs: inputs})
	if err != nil {
		return err
	}

	out, ok := e.handles.PrimaryOutput(node.Kind)
	if !ok {
		node.Set("output", raw)
		return nil
	}
	env := payload.Normalize(raw, out.Type)
	val := env.Interface()
	node.Set(out.ID, val)
	if out.ID != "output" {
		node.Set("output", val)
	}
	ctxlog.FromContext(ctx).Debug("Published node output.", "nodeID", node.ID, "handle", out.ID, "payloadKind", env.Kind().String())
	return nil
}

func (e *Executor) emit(ctx context.Context, ev events.Event) {
	ev.RunID = e.runID
	ev.At = time.Now()
	e.emitter.Emit(ctx, ev)
}

func (e *Executor) emitNode(ctx context.Context, t events.Type, node *graph.Node, err error) {
	ev := events.Event{Type: t, NodeID: node.ID, NodeKind: node.Kind}
	if err != nil {
		ev.Error = err.Error()
	}
	e.emit(ctx, ev)
}

// successorIndex maps each node id to its direct dependents, for failure
// propagation. Edges to unknown nodes are ignored.
func successorIndex(g *graph.Graph) map[string][]string {
	out := make(map[string][]string)
	for _, e := range g.Edges {
		if _, ok := g.NodeByID(e.Source); !ok {
			continue
		}
		if _, ok := g.NodeByID(e.Target); !ok {
			continue
		}
		out[e.Source] = append(out[e.Source], e.Target)
	}
	return out
}

// markDependents transitively marks every node downstream of id as skipped.
func markDependents(id string, successors map[string][]string, skipped map[string]bool) {
	for _, succ := range successors[id] {
		if skipped[succ] {
			continue
		}
		skipped[succ] = true
		markDependents(succ, successors, skipped)
	}
}
