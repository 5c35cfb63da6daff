package schedule

import (
	"errors"
	"fmt"

	"github.com/vk/mediaflowgo/internal/graph"
)

// ErrCycleDetected reports that the graph admits no execution order. It
// deliberately carries no information about which nodes form the cycle;
// localizing cycle membership is out of scope for the scheduler.
var ErrCycleDetected = errors.New("cycle detected in flow graph")

// Order returns a total execution order over the graph's nodes using Kahn's
// algorithm. An empty graph yields an empty order; a graph with no edges
// yields the nodes exactly as declared. Edges whose endpoints do not resolve
// to known nodes contribute no dependency.
func Order(g *graph.Graph) ([]*graph.Node, error) {
	indegree := make(map[string]int, len(g.Nodes))
	successors := make(map[string][]string, len(g.Nodes))
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := g.NodeByID(e.Source); !ok {
			continue
		}
		if _, ok := g.NodeByID(e.Target); !ok {
			continue
		}
		successors[e.Source] = append(successors[e.Source], e.Target)
		indegree[e.Target]++
	}

	// Seed the FIFO queue with sources in declared node order.
	queue := make([]*graph.Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*graph.Node, 0, len(g.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, succID := range successors[n.ID] {
			indegree[succID]--
			if indegree[succID] == 0 {
				succ, _ := g.NodeByID(succID)
				queue = append(queue, succ)
			}
		}
	}

	if len(order) < len(g.Nodes) {
		return nil, fmt.Errorf("ordered %d of %d nodes: %w", len(order), len(g.Nodes), ErrCycleDetected)
	}
	return order, nil
}
