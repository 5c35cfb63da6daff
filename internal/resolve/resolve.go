package resolve

import "github.com/vk/mediaflowgo/internal/graph"

// DefaultHandle is the input key used for edges that carry no target handle.
const DefaultHandle = "default"

// Values is the ordered sequence of upstream contributions to one input
// port. It is never empty: a port with no contributions has no entry at all.
type Values []any

// Scalar unwraps a single-element sequence for call sites that expect one
// value per port. Multi-element sequences come back as a plain []any so a
// consumer that genuinely accepts fan-in can range over it.
func (v Values) Scalar() any {
	switch len(v) {
	case 0:
		return nil
	case 1:
		return v[0]
	default:
		return []any(v)
	}
}

// Inputs maps input handle ids to their aggregated upstream values.
type Inputs map[string]Values

// Value is shorthand for Inputs[handle].Scalar(); missing handles yield nil.
func (in Inputs) Value(handleID string) any {
	return in[handleID].Scalar()
}

// Plain flattens the aggregation into an ordinary record, unwrapping
// singleton sequences. Used where inputs cross a process or wire boundary,
// e.g. when fed to a script node on stdin.
func (in Inputs) Plain() map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v.Scalar()
	}
	return out
}

// Resolve walks every edge targeting the given node, in edge declaration
// order, and reads the upstream value from the source node's data record at
// the key matching the edge's source handle (output ports publish under
// their own id). Edges whose source node or published value is absent
// contribute nothing.
func Resolve(nodeID string, g *graph.Graph) Inputs {
	inputs := make(Inputs)
	for _, e := range g.EdgesInto(nodeID) {
		src, ok := g.NodeByID(e.Source)
		if !ok {
			continue
		}
		val, ok := src.Get(e.SourceHandle)
		if !ok || val == nil {
			continue
		}
		key := e.TargetHandle
		if key == "" {
			key = DefaultHandle
		}
		inputs[key] = append(inputs[key], val)
	}
	return inputs
}
