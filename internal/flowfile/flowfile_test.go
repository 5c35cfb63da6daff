package flowfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mediaflowgo/internal/handle"
)

func newLoader(t *testing.T) *Loader {
	t.Helper()
	handles, err := handle.Load()
	require.NoError(t, err)
	return NewLoader(handles)
}

func writeFlow(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SingleFile(t *testing.T) {
	path := writeFlow(t, t.TempDir(), "basic.flow.json", `{
		"name": "basic",
		"nodes": [
			{"id": "in", "kind": "text-input", "data": {"text": "hello"}},
			{"id": "gen", "kind": "generate-image", "data": {"prompt": "a fox"}}
		],
		"edges": [
			{"id": "e1", "source": "in", "sourceHandle": "text", "target": "gen", "targetHandle": "text"}
		]
	}`)

	g, err := newLoader(t).Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	gen, ok := g.NodeByID("gen")
	require.True(t, ok)
	assert.Equal(t, "generate-image", gen.Kind)
	assert.Equal(t, "a fox", gen.Data["prompt"])

	e := g.Edges[0]
	assert.Equal(t, "text", e.SourceHandle)
	assert.Equal(t, "text", e.TargetHandle)
}

func TestLoad_SeedsManifestDefaults(t *testing.T) {
	path := writeFlow(t, t.TempDir(), "defaults.flow.json", `{
		"nodes": [{"id": "gen", "kind": "generate-image", "data": {"prompt": "a fox"}}],
		"edges": []
	}`)

	g, err := newLoader(t).Load(context.Background(), path)
	require.NoError(t, err)

	gen, _ := g.NodeByID("gen")
	assert.Equal(t, "gpt-image-1", gen.Data["model"])
	assert.Equal(t, "a fox", gen.Data["prompt"])
}

func TestLoad_DocumentDataOverridesDefaults(t *testing.T) {
	path := writeFlow(t, t.TempDir(), "override.flow.json", `{
		"nodes": [{"id": "gen", "kind": "generate-image", "data": {"prompt": "a fox", "model": "dall-e-3"}}],
		"edges": []
	}`)

	g, err := newLoader(t).Load(context.Background(), path)
	require.NoError(t, err)

	gen, _ := g.NodeByID("gen")
	assert.Equal(t, "dall-e-3", gen.Data["model"])
}

func TestLoad_LegacyTypeFieldNamesTheKind(t *testing.T) {
	path := writeFlow(t, t.TempDir(), "legacy.flow.json", `{
		"nodes": [{"id": "in", "type": "text-input", "data": {"text": "x"}}],
		"edges": []
	}`)

	g, err := newLoader(t).Load(context.Background(), path)
	require.NoError(t, err)

	in, _ := g.NodeByID("in")
	assert.Equal(t, "text-input", in.Kind)
}

func TestLoad_DirectoryMergesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFlow(t, dir, "b.flow.json", `{"nodes": [{"id": "second", "kind": "text-input"}], "edges": []}`)
	writeFlow(t, dir, "a.flow.json", `{"nodes": [{"id": "first", "kind": "text-input"}], "edges": []}`)
	writeFlow(t, dir, "notes.txt", "not a flow")

	g, err := newLoader(t).Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, "first", g.Nodes[0].ID)
	assert.Equal(t, "second", g.Nodes[1].ID)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := newLoader(t).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("directory with no flow files", func(t *testing.T) {
		_, err := newLoader(t).Load(context.Background(), t.TempDir())
		assert.ErrorContains(t, err, "no .flow.json files found")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeFlow(t, t.TempDir(), "broken.flow.json", `{"nodes": [`)
		_, err := newLoader(t).Load(context.Background(), path)
		assert.ErrorContains(t, err, "parsing flow file")
	})

	t.Run("node with empty id", func(t *testing.T) {
		path := writeFlow(t, t.TempDir(), "anon.flow.json", `{"nodes": [{"kind": "text-input"}], "edges": []}`)
		_, err := newLoader(t).Load(context.Background(), path)
		assert.ErrorContains(t, err, "empty id")
	})
}
