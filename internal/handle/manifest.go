package handle

import (
	"embed"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

//go:embed manifests/*.hcl
var manifestFS embed.FS

// manifestFile is the top-level structure of a node-kind manifest file.
type manifestFile struct {
	Nodes []*nodeManifest `hcl:"node,block"`
}

// nodeManifest declares one node kind: its ports and the default data record
// a freshly instantiated node of this kind starts with.
type nodeManifest struct {
	Kind        string         `hcl:"kind,label"`
	Description string         `hcl:"description,optional"`
	Inputs      []*handleBlock `hcl:"input,block"`
	Outputs     []*handleBlock `hcl:"output,block"`
	Defaults    *defaultsBlock `hcl:"defaults,block"`
}

// handleBlock declares a single named, typed port.
type handleBlock struct {
	ID    string `hcl:"id,label"`
	Label string `hcl:"label,optional"`
	Type  string `hcl:"type"`
}

// defaultsBlock carries arbitrary attributes that seed a node's data record.
type defaultsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// loadManifests parses every embedded manifest file into kind definitions.
func loadManifests() (map[string]*KindDef, []string, error) {
	entries, err := manifestFS.ReadDir("manifests")
	if err != nil {
		return nil, nil, fmt.Errorf("reading embedded manifests: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	// ReadDir is sorted already; keep the sort explicit so kind ordering
	// stays stable if the embed ever changes.
	sort.Strings(names)

	parser := hclparse.NewParser()
	kinds := make(map[string]*KindDef)
	var order []string

	for _, name := range names {
		src, err := manifestFS.ReadFile("manifests/" + name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading manifest %s: %w", name, err)
		}
		file, diags := parser.ParseHCL(src, name)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("parsing manifest %s: %w", name, diags)
		}
		var mf manifestFile
		if diags := gohcl.DecodeBody(file.Body, nil, &mf); diags.HasErrors() {
			return nil, nil, fmt.Errorf("decoding manifest %s: %w", name, diags)
		}
		for _, nm := range mf.Nodes {
			if _, exists := kinds[nm.Kind]; exists {
				return nil, nil, fmt.Errorf("manifest %s: node kind %q declared twice", name, nm.Kind)
			}
			def, err := buildKindDef(nm)
			if err != nil {
				return nil, nil, fmt.Errorf("manifest %s: %w", name, err)
			}
			kinds[nm.Kind] = def
			order = append(order, nm.Kind)
		}
	}
	return kinds, order, nil
}

func buildKindDef(nm *nodeManifest) (*KindDef, error) {
	def := &KindDef{
		Kind:        nm.Kind,
		Description: nm.Description,
		Defaults:    map[string]any{},
	}
	for _, h := range nm.Inputs {
		def.Inputs = append(def.Inputs, Def{ID: h.ID, Label: h.Label, Type: NormalizeType(h.Type)})
	}
	for _, h := range nm.Outputs {
		def.Outputs = append(def.Outputs, Def{ID: h.ID, Label: h.Label, Type: NormalizeType(h.Type)})
	}
	if nm.Defaults != nil {
		attrs, diags := nm.Defaults.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("kind %q defaults: %w", nm.Kind, diags)
		}
		for attrName, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("kind %q default %q: %w", nm.Kind, attrName, diags)
			}
			goVal, err := ctyValueToInterface(val)
			if err != nil {
				return nil, fmt.Errorf("kind %q default %q: %w", nm.Kind, attrName, err)
			}
			def.Defaults[attrName] = goVal
		}
	}
	return def, nil
}

// ctyValueToInterface converts a cty.Value from a manifest into a plain Go
// value suitable for a node data record.
func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			conv, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = conv
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			conv, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported cty.Type for conversion: %s", val.Type().FriendlyName())
}
