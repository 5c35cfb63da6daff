package validate

import "github.com/vk/mediaflowgo/internal/graph"

// Mode selects how a requirement can be satisfied.
type Mode int

const (
	// ConnectedOrLocal is satisfied by an incoming edge on the named handle
	// or by a non-empty local string under any of the listed keys.
	ConnectedOrLocal Mode = iota
	// LocalOnly is satisfied only by a local value.
	LocalOnly
)

// Rule is one requirement of a node kind.
type Rule struct {
	// Key identifies the requirement in reports.
	Key string
	// Label is the human-readable name surfaced to the user.
	Label string
	// Handle is the input port an edge may satisfy (ConnectedOrLocal only).
	Handle string
	// LocalKeys are data-record fields that may satisfy the rule locally.
	LocalKeys []string
	Mode      Mode
	// Presence relaxes LocalOnly to "any non-nil value", for payloads that
	// are not necessarily strings (an uploaded image record, for example).
	Presence bool
}

// Missing describes one unsatisfied requirement.
type Missing struct {
	Key   string
	Label string
}

var generatorRules = []Rule{
	{Key: "prompt", Label: "Prompt", Handle: "text", LocalKeys: []string{"prompt"}, Mode: ConnectedOrLocal},
}

// kindRules is the full requirement table. Kinds outside it are permissive.
var kindRules = map[string][]Rule{
	"generate-text":  generatorRules,
	"generate-image": generatorRules,
	"generate-video": generatorRules,
	"generate-3d":    generatorRules,

	"text-input": {
		{Key: "text", Label: "Text", LocalKeys: []string{"text", "output"}, Mode: LocalOnly},
	},
	"image-input": {
		{Key: "image", Label: "Image", LocalKeys: []string{"image"}, Mode: LocalOnly, Presence: true},
	},
	"video-input": {
		{Key: "video", Label: "Video", LocalKeys: []string{"video"}, Mode: LocalOnly, Presence: true},
	},
	"3d-input": {
		{Key: "model", Label: "Model", LocalKeys: []string{"url", "model", "output"}, Mode: LocalOnly},
	},

	"preview-text": {
		{Key: "text", Label: "Text", Handle: "text", LocalKeys: []string{"text", "output"}, Mode: ConnectedOrLocal},
	},
	"preview-image": {
		{Key: "image", Label: "Image", Handle: "image", LocalKeys: []string{"image", "output", "url", "src"}, Mode: ConnectedOrLocal},
	},
	"preview-video": {
		{Key: "video", Label: "Video", Handle: "video", LocalKeys: []string{"video", "output", "url", "src"}, Mode: ConnectedOrLocal},
	},
	"preview-3d": {
		{Key: "model", Label: "Model", Handle: "model", LocalKeys: []string{"model", "output", "url", "src"}, Mode: ConnectedOrLocal},
	},

	"script": {
		{Key: "code", Label: "Code", LocalKeys: []string{"code"}, Mode: LocalOnly},
		{Key: "language", Label: "Language", LocalKeys: []string{"language"}, Mode: LocalOnly},
	},
}

// Check evaluates the node kind's requirement rules against the node's data
// record and the graph's edges, returning every unsatisfied requirement.
func Check(n *graph.Node, g *graph.Graph) []Missing {
	var missing []Missing
	for _, rule := range kindRules[n.Kind] {
		if !satisfied(rule, n, g) {
			missing = append(missing, Missing{Key: rule.Key, Label: rule.Label})
		}
	}
	return missing
}

func satisfied(rule Rule, n *graph.Node, g *graph.Graph) bool {
	if rule.Mode == ConnectedOrLocal && g.HasEdgeInto(n.ID, rule.Handle) {
		return true
	}
	for _, key := range rule.LocalKeys {
		if rule.Presence {
			if v, ok := n.Get(key); ok && v != nil {
				return true
			}
			continue
		}
		if _, ok := n.String(key); ok {
			return true
		}
	}
	return false
}
