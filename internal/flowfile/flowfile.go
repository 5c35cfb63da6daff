package flowfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/mediaflowgo/internal/ctxlog"
	"github.com/vk/mediaflowgo/internal/graph"
	"github.com/vk/mediaflowgo/internal/handle"
)

// Suffix is the file name suffix flow documents carry inside a directory.
const Suffix = ".flow.json"

// document is the top-level JSON structure of one flow file.
type document struct {
	Name  string    `json:"name"`
	Nodes []nodeDoc `json:"nodes"`
	Edges []edgeDoc `json:"edges"`
}

// nodeDoc accepts both "kind" and the older "type" field name for the node
// kind tag.
type nodeDoc struct {
	ID   string         `json:"id"`
	Kind string         `json:"kind"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func (n nodeDoc) kind() string {
	if n.Kind != "" {
		return n.Kind
	}
	return n.Type
}

type edgeDoc struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle"`
}

// Loader reads flow documents and materializes graph models, seeding each
// node's data record with its kind's manifest defaults.
type Loader struct {
	handles *handle.Registry
}

// NewLoader creates a flow file loader.
func NewLoader(handles *handle.Registry) *Loader {
	return &Loader{handles: handles}
}

// Load reads the file or directory at path into a single graph.
func (l *Loader) Load(ctx context.Context, path string) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findFlowFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found at %s", Suffix, path)
	}
	logger.Debug("Loading flow files.", "count", len(files))

	g := graph.New()
	for _, file := range files {
		if err := l.loadFile(ctx, file, g); err != nil {
			return nil, err
		}
	}
	logger.Debug("Flow loaded.", "nodes", len(g.Nodes), "edges", len(g.Edges))
	return g, nil
}

func (l *Loader) loadFile(ctx context.Context, path string, g *graph.Graph) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading flow file %s: %w", path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing flow file %s: %w", path, err)
	}

	for _, nd := range doc.Nodes {
		if nd.ID == "" {
			return fmt.Errorf("flow file %s: node with empty id", path)
		}
		node := graph.NewNode(nd.ID, nd.kind(), l.handles.Defaults(nd.kind()))
		for k, v := range nd.Data {
			node.Set(k, v)
		}
		g.AddNode(node)
	}
	for _, ed := range doc.Edges {
		g.AddEdge(&graph.Edge{
			ID:           ed.ID,
			Source:       ed.Source,
			SourceHandle: ed.SourceHandle,
			Target:       ed.Target,
			TargetHandle: ed.TargetHandle,
		})
	}
	ctxlog.FromContext(ctx).Debug("Merged flow file.", "path", path, "name", doc.Name)
	return nil
}

// findFlowFiles resolves a path to the ordered list of flow files it names.
func findFlowFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Suffix) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}
