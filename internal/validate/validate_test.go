package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mediaflowgo/internal/graph"
)

func singleNodeGraph(n *graph.Node) *graph.Graph {
	g := graph.New()
	g.AddNode(n)
	return g
}

func TestCheck_GeneratorPrompt(t *testing.T) {
	t.Run("missing prompt reported", func(t *testing.T) {
		n := graph.NewNode("gen", "generate-image", nil)
		missing := Check(n, singleNodeGraph(n))
		require.Len(t, missing, 1)
		assert.Equal(t, "prompt", missing[0].Key)
		assert.Equal(t, "Prompt", missing[0].Label)
	})

	t.Run("empty prompt string still missing", func(t *testing.T) {
		n := graph.NewNode("gen", "generate-text", map[string]any{"prompt": ""})
		assert.Len(t, Check(n, singleNodeGraph(n)), 1)
	})

	t.Run("local prompt satisfies", func(t *testing.T) {
		n := graph.NewNode("gen", "generate-video", map[string]any{"prompt": "a storm"})
		assert.Empty(t, Check(n, singleNodeGraph(n)))
	})

	t.Run("incoming text edge satisfies", func(t *testing.T) {
		g := graph.New()
		src := graph.NewNode("src", "text-input", map[string]any{"text": "a storm"})
		gen := graph.NewNode("gen", "generate-3d", nil)
		g.AddNode(src)
		g.AddNode(gen)
		g.AddEdge(&graph.Edge{Source: "src", SourceHandle: "text", Target: "gen", TargetHandle: "text"})
		assert.Empty(t, Check(gen, g))
	})

	t.Run("edge on a different handle does not satisfy", func(t *testing.T) {
		g := graph.New()
		src := graph.NewNode("src", "image-input", map[string]any{"image": "https://x/a.png"})
		gen := graph.NewNode("gen", "generate-image", nil)
		g.AddNode(src)
		g.AddNode(gen)
		g.AddEdge(&graph.Edge{Source: "src", SourceHandle: "image", Target: "gen", TargetHandle: "image"})
		assert.Len(t, Check(gen, g), 1)
	})
}

func TestCheck_Inputs(t *testing.T) {
	t.Run("text-input needs local text", func(t *testing.T) {
		n := graph.NewNode("in", "text-input", nil)
		assert.Len(t, Check(n, singleNodeGraph(n)), 1)

		n.Set("text", "hello")
		assert.Empty(t, Check(n, singleNodeGraph(n)))
	})

	t.Run("image-input accepts any non-nil payload", func(t *testing.T) {
		n := graph.NewNode("in", "image-input", nil)
		assert.Len(t, Check(n, singleNodeGraph(n)), 1)

		// An uploaded image arrives as a record, not a string.
		n.Set("image", map[string]any{"data": "AAAA", "mimeType": "image/png"})
		assert.Empty(t, Check(n, singleNodeGraph(n)))
	})

	t.Run("input is never satisfied by an edge", func(t *testing.T) {
		g := graph.New()
		src := graph.NewNode("src", "text-input", map[string]any{"text": "x"})
		in := graph.NewNode("in", "video-input", nil)
		g.AddNode(src)
		g.AddNode(in)
		g.AddEdge(&graph.Edge{Source: "src", SourceHandle: "text", Target: "in", TargetHandle: "video"})
		assert.Len(t, Check(in, g), 1)
	})
}

func TestCheck_Previews(t *testing.T) {
	t.Run("bare preview is missing its payload", func(t *testing.T) {
		n := graph.NewNode("p", "preview-image", nil)
		missing := Check(n, singleNodeGraph(n))
		require.Len(t, missing, 1)
		assert.Equal(t, "image", missing[0].Key)
	})

	t.Run("wired preview is satisfied", func(t *testing.T) {
		g := graph.New()
		src := graph.NewNode("src", "image-input", map[string]any{"image": "https://x/a.png"})
		p := graph.NewNode("p", "preview-image", nil)
		g.AddNode(src)
		g.AddNode(p)
		g.AddEdge(&graph.Edge{Source: "src", SourceHandle: "image", Target: "p", TargetHandle: "image"})
		assert.Empty(t, Check(p, g))
	})

	t.Run("stale local output satisfies", func(t *testing.T) {
		n := graph.NewNode("p", "preview-text", map[string]any{"output": "previous run"})
		assert.Empty(t, Check(n, singleNodeGraph(n)))
	})
}

func TestCheck_Script(t *testing.T) {
	n := graph.NewNode("s", "script", nil)
	missing := Check(n, singleNodeGraph(n))
	require.Len(t, missing, 2)
	assert.Equal(t, "code", missing[0].Key)
	assert.Equal(t, "language", missing[1].Key)

	n.Set("code", "print('hi')")
	n.Set("language", "python")
	assert.Empty(t, Check(n, singleNodeGraph(n)))
}

func TestCheck_UnknownKindIsPermissive(t *testing.T) {
	n := graph.NewNode("x", "experimental-kind", nil)
	assert.Empty(t, Check(n, singleNodeGraph(n)))
}
