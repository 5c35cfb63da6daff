package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/mediaflowgo/internal/handle"
)

func TestToText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"float", 1.5, "1.5"},
		{"string list joins with newlines", []string{"a", "b"}, "a\nb"},
		{"any list of strings joins", []any{"a", "b"}, "a\nb"},
		{"mixed list serializes to JSON", []any{"a", 1}, `["a",1]`},
		{"record yields text field", map[string]any{"text": "inner"}, "inner"},
		{"record yields content field", map[string]any{"content": "inner"}, "inner"},
		{"record field recurses", map[string]any{"message": map[string]any{"text": "deep"}}, "deep"},
		{"record without text fields serializes", map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToText(tt.in))
		})
	}
}

func TestToImage(t *testing.T) {
	t.Run("reference prefixes pass through", func(t *testing.T) {
		for _, ref := range []string{
			"data:image/png;base64,AAAA",
			"http://example.com/a.png",
			"https://example.com/a.png",
			"file:///tmp/a.png",
		} {
			assert.Equal(t, ref, ToImage(ref))
		}
	})

	t.Run("bare string is rejected", func(t *testing.T) {
		assert.Nil(t, ToImage("a cat"))
		assert.Nil(t, ToImage("data:video/mp4;base64,AAAA"))
	})

	t.Run("list always yields a list", func(t *testing.T) {
		got := ToImage([]any{"https://example.com/a.png"})
		assert.Equal(t, []string{"https://example.com/a.png"}, got)
	})

	t.Run("list drops failures and flattens", func(t *testing.T) {
		got := ToImage([]any{
			"https://example.com/a.png",
			"not a ref",
			nil,
			[]any{"https://example.com/b.png"},
		})
		assert.Equal(t, []string{"https://example.com/a.png", "https://example.com/b.png"}, got)
	})

	t.Run("list with nothing usable is nil", func(t *testing.T) {
		assert.Nil(t, ToImage([]any{"nope", 42}))
	})

	t.Run("record fields searched in priority order", func(t *testing.T) {
		got := ToImage(map[string]any{
			"url":   "https://example.com/url.png",
			"image": "https://example.com/image.png",
		})
		assert.Equal(t, "https://example.com/image.png", got)
	})

	t.Run("record synthesizes data URI from base64", func(t *testing.T) {
		got := ToImage(map[string]any{"data": "AAAA", "mimeType": "image/jpeg"})
		assert.Equal(t, "data:image/jpeg;base64,AAAA", got)
	})

	t.Run("base64 synthesis defaults to png", func(t *testing.T) {
		got := ToImage(map[string]any{"data": "AAAA"})
		assert.Equal(t, "data:image/png;base64,AAAA", got)
	})

	t.Run("matching field wins over base64 synthesis", func(t *testing.T) {
		got := ToImage(map[string]any{
			"url":  "https://example.com/a.png",
			"data": "AAAA",
		})
		assert.Equal(t, "https://example.com/a.png", got)
	})
}

func TestToVideo(t *testing.T) {
	assert.Equal(t, "https://example.com/a.mp4", ToVideo("https://example.com/a.mp4"))
	assert.Nil(t, ToVideo("not a ref"))

	t.Run("list collapses to first element", func(t *testing.T) {
		got := ToVideo([]any{"https://example.com/a.mp4", "https://example.com/b.mp4"})
		assert.Equal(t, "https://example.com/a.mp4", got)
	})

	t.Run("list with unusable head is nil", func(t *testing.T) {
		assert.Nil(t, ToVideo([]any{"nope", "https://example.com/b.mp4"}))
	})

	t.Run("record field", func(t *testing.T) {
		got := ToVideo(map[string]any{"video": "https://example.com/a.mp4"})
		assert.Equal(t, "https://example.com/a.mp4", got)
	})
}

func TestToModel(t *testing.T) {
	assert.Equal(t, "data:model/gltf-binary;base64,AAAA", ToModel("data:model/gltf-binary;base64,AAAA"))
	assert.Equal(t, "data:application/octet-stream;base64,AAAA", ToModel("data:application/octet-stream;base64,AAAA"))
	assert.Nil(t, ToModel("data:image/png;base64,AAAA"))

	t.Run("record searches 3d field", func(t *testing.T) {
		got := ToModel(map[string]any{"3d": "https://example.com/a.glb"})
		assert.Equal(t, "https://example.com/a.glb", got)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		env := Normalize("hello", handle.TypeText)
		assert.Equal(t, KindText, env.Kind())
		assert.Equal(t, "hello", env.Interface())
	})

	t.Run("image scalar", func(t *testing.T) {
		env := Normalize("https://example.com/a.png", handle.TypeImage)
		assert.Equal(t, KindImageRef, env.Kind())
		assert.Equal(t, []string{"https://example.com/a.png"}, env.Refs())
	})

	t.Run("image list", func(t *testing.T) {
		env := Normalize([]any{"https://example.com/a.png"}, handle.TypeImage)
		assert.Equal(t, KindImageList, env.Kind())
		assert.Equal(t, []string{"https://example.com/a.png"}, env.Interface())
	})

	t.Run("video", func(t *testing.T) {
		env := Normalize([]any{"https://example.com/a.mp4"}, handle.TypeVideo)
		assert.Equal(t, KindVideoRef, env.Kind())
	})

	t.Run("any is identity", func(t *testing.T) {
		v := map[string]any{"weird": true}
		env := Normalize(v, handle.TypeAny)
		assert.Equal(t, KindRaw, env.Kind())
		assert.Equal(t, v, env.Interface())
	})

	t.Run("any of nil is null", func(t *testing.T) {
		assert.True(t, Normalize(nil, handle.TypeAny).IsNull())
	})

	t.Run("unknown type is null", func(t *testing.T) {
		assert.True(t, Normalize("anything", handle.TypeUnknown).IsNull())
	})

	t.Run("unusable image is null", func(t *testing.T) {
		assert.True(t, Normalize("a cat", handle.TypeImage).IsNull())
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		typ  handle.Type
	}{
		{"text", "hello", handle.TypeText},
		{"image ref", "https://example.com/a.png", handle.TypeImage},
		{"image list", []any{"https://example.com/a.png", "https://example.com/b.png"}, handle.TypeImage},
		{"video ref", "https://example.com/a.mp4", handle.TypeVideo},
		{"model ref", "https://example.com/a.glb", handle.TypeModel3D},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := Normalize(tt.in, tt.typ)
			twice := Normalize(once.Interface(), tt.typ)
			assert.Equal(t, once, twice)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("output wins when usable", func(t *testing.T) {
		data := map[string]any{
			"output": "https://example.com/out.png",
			"image":  "https://example.com/local.png",
		}
		env := Extract(data, handle.TypeImage)
		assert.Equal(t, []string{"https://example.com/out.png"}, env.Refs())
	})

	t.Run("empty output falls through to fields", func(t *testing.T) {
		data := map[string]any{
			"output": "not a ref",
			"image":  "https://example.com/local.png",
		}
		env := Extract(data, handle.TypeImage)
		assert.Equal(t, []string{"https://example.com/local.png"}, env.Refs())
	})

	t.Run("first present field is taken as-is", func(t *testing.T) {
		data := map[string]any{"image": "not a ref", "url": "https://example.com/a.png"}
		env := Extract(data, handle.TypeImage)
		assert.True(t, env.IsNull())
	})

	t.Run("text prefers prompt over later fields", func(t *testing.T) {
		data := map[string]any{"prompt": "a prompt"}
		env := Extract(data, handle.TypeText)
		assert.Equal(t, "a prompt", env.String())
	})

	t.Run("nothing present is null", func(t *testing.T) {
		assert.True(t, Extract(map[string]any{}, handle.TypeVideo).IsNull())
	})
}

func TestEnvelope(t *testing.T) {
	assert.True(t, Envelope{}.IsNull())
	assert.True(t, Envelope{}.Empty())
	assert.Nil(t, Envelope{}.Interface())
	assert.Equal(t, "", Envelope{}.String())

	assert.True(t, Text("").Empty())
	assert.False(t, Text("x").Empty())
	assert.True(t, ImageList(nil).Empty())

	assert.Equal(t, "a\nb", ImageList([]string{"a", "b"}).String())
	assert.Equal(t, []string{"ref"}, VideoRef("ref").Refs())
	assert.Nil(t, Text("x").Refs())
}

func TestDecodeRecord(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		rec, ok := DecodeRecord(`{"text": "hi"}`)
		require.True(t, ok)
		assert.Equal(t, "hi", rec["text"])
	})

	t.Run("repairs fenced model output", func(t *testing.T) {
		rec, ok := DecodeRecord("```json\n{\"text\": \"hi\",}\n```")
		require.True(t, ok)
		assert.Equal(t, "hi", rec["text"])
	})

	t.Run("hopeless input", func(t *testing.T) {
		_, ok := DecodeRecord("just words")
		assert.False(t, ok)
	})
}
