package handle

import "fmt"

// Def describes a single declared port on a node kind.
type Def struct {
	ID    string
	Label string
	Type  Type
}

// KindDef is the full declaration of one node kind.
type KindDef struct {
	Kind        string
	Description string
	Inputs      []Def
	Outputs     []Def
	// Defaults seeds the data record of a newly instantiated node.
	Defaults map[string]any
}

// Registry answers port-type lookups over the set of declared node kinds.
type Registry struct {
	kinds map[string]*KindDef
	order []string
}

// Load parses the embedded manifests and returns a ready registry.
func Load() (*Registry, error) {
	kinds, order, err := loadManifests()
	if err != nil {
		return nil, fmt.Errorf("loading node kind manifests: %w", err)
	}
	return &Registry{kinds: kinds, order: order}, nil
}

// Kinds returns every declared node kind in manifest order.
func (r *Registry) Kinds() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Kind returns the declaration for a node kind, or false if unknown.
func (r *Registry) Kind(kind string) (*KindDef, bool) {
	def, ok := r.kinds[kind]
	return def, ok
}

// HandleType returns the semantic type of the named port on the given node
// kind, looking at inputs or outputs per dir. Unknown kinds and unknown
// handle ids resolve to TypeUnknown rather than an error: the graph model is
// tolerant of stale or malformed edges, and lookups on them simply carry no
// type information.
func (r *Registry) HandleType(kind, handleID string, dir Direction) Type {
	def, ok := r.kinds[kind]
	if !ok {
		return TypeUnknown
	}
	defs := def.Inputs
	if dir == Output {
		defs = def.Outputs
	}
	for _, h := range defs {
		if h.ID == handleID {
			return h.Type
		}
	}
	return TypeUnknown
}

// PrimaryOutput returns the first declared output port of a kind. The
// executor publishes a generator's normalized result under this port.
func (r *Registry) PrimaryOutput(kind string) (Def, bool) {
	def, ok := r.kinds[kind]
	if !ok || len(def.Outputs) == 0 {
		return Def{}, false
	}
	return def.Outputs[0], true
}

// Defaults returns a copy of the default data record for a kind. The copy is
// shallow; manifest defaults are treated as immutable.
func (r *Registry) Defaults(kind string) map[string]any {
	def, ok := r.kinds[kind]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(def.Defaults))
	for k, v := range def.Defaults {
		out[k] = v
	}
	return out
}
