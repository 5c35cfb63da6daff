package payload

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/mediaflowgo/internal/handle"
)

var (
	imagePrefixes = []string{"data:image/", "http://", "https://", "file://"}
	videoPrefixes = []string{"data:video/", "http://", "https://", "file://"}
	modelPrefixes = []string{"data:model/", "data:application/octet-stream", "http://", "https://", "file://"}

	textFields  = []string{"text", "content", "message", "output"}
	imageFields = []string{"image", "url", "src", "output", "data", "result"}
	videoFields = []string{"video", "url", "src", "output", "data", "result"}
	modelFields = []string{"model", "url", "src", "output", "data", "result", "3d"}
)

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// jsonString serializes v, falling back to fmt.Sprint when v cannot be
// marshaled. Keeps ToText total.
func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// ToText coerces any value to a single string. Nil becomes the empty string;
// a list of strings joins with newlines; any other list or record serializes
// to JSON, except that a record first yields its text, content, message, or
// output field, recursively normalized.
func ToText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []string:
		return strings.Join(t, "\n")
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			s, ok := el.(string)
			if !ok {
				return jsonString(t)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		for _, field := range textFields {
			if inner, ok := t[field]; ok {
				return ToText(inner)
			}
		}
		return jsonString(t)
	default:
		return fmt.Sprint(t)
	}
}

// ToImage coerces a value to an image reference string, or to a flat list of
// them when the input is a list. Returns nil when nothing usable is found.
// A record with a raw base64 string under "data" and no matching reference
// field is synthesized into a data: URI using its declared mime type.
func ToImage(v any) any {
	switch t := v.(type) {
	case string:
		if hasAnyPrefix(t, imagePrefixes) {
			return t
		}
		return nil
	case []string:
		return imageList(stringsToAny(t))
	case []any:
		return imageList(t)
	case map[string]any:
		for _, field := range imageFields {
			if inner, ok := t[field]; ok {
				if r := ToImage(inner); r != nil {
					return r
				}
			}
		}
		if data, ok := t["data"].(string); ok && data != "" {
			mime := "image/png"
			if m, ok := t["mimeType"].(string); ok && m != "" {
				mime = m
			} else if m, ok := t["mime_type"].(string); ok && m != "" {
				mime = m
			}
			return "data:" + mime + ";base64," + data
		}
		return nil
	default:
		return nil
	}
}

// imageList normalizes each element, flattens one level of nesting, and
// drops failures. A list input always yields a list result, even with a
// single surviving element; the collapse to scalar is video/3d behavior,
// not image behavior.
func imageList(elems []any) any {
	var out []string
	for _, el := range elems {
		switch r := ToImage(el).(type) {
		case string:
			out = append(out, r)
		case []string:
			out = append(out, r...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// ToVideo coerces a value to a single video reference string or nil. Unlike
// images, a list contributes only its first element.
func ToVideo(v any) any {
	return refScalar(v, videoPrefixes, videoFields)
}

// ToModel coerces a value to a single 3d model reference string or nil.
func ToModel(v any) any {
	return refScalar(v, modelPrefixes, modelFields)
}

func refScalar(v any, prefixes []string, fields []string) any {
	switch t := v.(type) {
	case string:
		if hasAnyPrefix(t, prefixes) {
			return t
		}
		return nil
	case []string:
		if len(t) == 0 {
			return nil
		}
		return refScalar(t[0], prefixes, fields)
	case []any:
		if len(t) == 0 {
			return nil
		}
		return refScalar(t[0], prefixes, fields)
	case map[string]any:
		for _, field := range fields {
			if inner, ok := t[field]; ok {
				if r := refScalar(inner, prefixes, fields); r != nil {
					return r
				}
			}
		}
		return nil
	default:
		return nil
	}
}

// Normalize coerces v into the canonical envelope for the requested semantic
// type. TypeAny is the identity; TypeUnknown carries no type information and
// yields a null envelope. Normalization is idempotent: a canonical value
// round-trips unchanged, modulo the list-to-first-element collapse for video
// and 3d.
func Normalize(v any, t handle.Type) Envelope {
	switch t {
	case handle.TypeAny:
		if v == nil {
			return Envelope{}
		}
		return RawValue(v)
	case handle.TypeText:
		return Text(ToText(v))
	case handle.TypeImage:
		switch r := ToImage(v).(type) {
		case string:
			return ImageRef(r)
		case []string:
			return ImageList(r)
		default:
			return Envelope{}
		}
	case handle.TypeVideo:
		if r, ok := ToVideo(v).(string); ok {
			return VideoRef(r)
		}
		return Envelope{}
	case handle.TypeModel3D:
		if r, ok := ToModel(v).(string); ok {
			return ModelRef(r)
		}
		return Envelope{}
	default:
		return Envelope{}
	}
}

// Extract pulls the best value of the given type out of a node's full data
// record: the published "output" field wins when it normalizes to something
// non-empty, otherwise the first present field of a type-specific priority
// list is normalized and returned as-is.
func Extract(data map[string]any, t handle.Type) Envelope {
	if v, ok := data["output"]; ok {
		if env := Normalize(v, t); !env.Empty() {
			return env
		}
	}
	for _, field := range extractFields(t) {
		if v, ok := data[field]; ok {
			return Normalize(v, t)
		}
	}
	return Envelope{}
}

func extractFields(t handle.Type) []string {
	switch t {
	case handle.TypeText:
		return []string{"text", "content", "message", "prompt", "output"}
	case handle.TypeImage:
		return []string{"image", "url", "src", "output"}
	case handle.TypeVideo:
		return []string{"video", "url", "src", "output"}
	case handle.TypeModel3D:
		return []string{"model", "3d", "url", "src", "output"}
	default:
		return nil
	}
}
