package graph

// Node is a single unit of work in a flow. Data is an open record holding
// both user-authored configuration (a prompt, a pasted URL) and, after
// execution, the node's published outputs keyed by output handle id.
type Node struct {
	ID   string
	Kind string
	Data map[string]any
}

// NewNode creates a node with a copy of the given seed data. A nil seed
// yields an empty, writable record.
func NewNode(id, kind string, seed map[string]any) *Node {
	data := make(map[string]any, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &Node{ID: id, Kind: kind, Data: data}
}

// Get reads a field from the node's data record.
func (n *Node) Get(key string) (any, bool) {
	v, ok := n.Data[key]
	return v, ok
}

// Set writes a field into the node's data record, allocating it if the node
// was constructed literally without one.
func (n *Node) Set(key string, v any) {
	if n.Data == nil {
		n.Data = make(map[string]any)
	}
	n.Data[key] = v
}

// String reads a field and reports whether it holds a non-empty string.
func (n *Node) String(key string) (string, bool) {
	s, ok := n.Data[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Edge is a directed connection from an output port on one node to an input
// port on another. Endpoints are ids, not pointers: the model tolerates
// dangling or stale references, and lookups on them simply find nothing.
type Edge struct {
	ID           string
	Source       string
	SourceHandle string
	Target       string
	TargetHandle string
}

// Graph is an ordered collection of nodes and edges. Order is load-bearing:
// the scheduler seeds its ready queue in node order, and the resolver folds
// multi-edge inputs in edge order.
type Graph struct {
	Nodes []*Node
	Edges []*Edge

	byID map[string]*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{byID: make(map[string]*Node)}
}

// AddNode appends a node, keeping declaration order. A node whose id is
// already present is ignored.
func (g *Graph) AddNode(n *Node) {
	if n == nil {
		return
	}
	if g.byID == nil {
		g.byID = make(map[string]*Node)
	}
	if _, ok := g.byID[n.ID]; ok {
		return
	}
	g.byID[n.ID] = n
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge. Endpoint existence is not checked here; the
// resolver and validator treat unmatched references as absent values.
func (g *Graph) AddEdge(e *Edge) {
	if e == nil {
		return
	}
	g.Edges = append(g.Edges, e)
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// EdgesInto returns every edge targeting the given node, in the order the
// edges were added.
func (g *Graph) EdgesInto(nodeID string) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Target == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// HasEdgeInto reports whether any edge targets the given input handle on the
// given node.
func (g *Graph) HasEdgeInto(nodeID, handleID string) bool {
	for _, e := range g.Edges {
		if e.Target == nodeID && e.TargetHandle == handleID {
			return true
		}
	}
	return false
}
