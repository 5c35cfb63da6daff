package handle

// Type is the semantic type carried by a port. The zero value means the type
// could not be resolved (unknown kind, unknown handle, or an unrecognized
// type name in a manifest).
type Type string

const (
	TypeUnknown Type = ""
	TypeText    Type = "text"
	TypeImage   Type = "image"
	TypeVideo   Type = "video"
	TypeModel3D Type = "3d"
	// TypeAny is a wildcard compatible with every other type in both directions.
	TypeAny Type = "any"
)

// NormalizeType maps a raw manifest type name to a semantic Type. The legacy
// name "string" is accepted as an alias for "text"; anything unrecognized
// resolves to TypeUnknown.
func NormalizeType(raw string) Type {
	switch raw {
	case "text", "string":
		return TypeText
	case "image":
		return TypeImage
	case "video":
		return TypeVideo
	case "3d":
		return TypeModel3D
	case "any":
		return TypeAny
	default:
		return TypeUnknown
	}
}

// Direction selects which port list of a node kind a lookup consults.
type Direction int

const (
	Input Direction = iota
	Output
)

// String returns the manifest-facing name of the direction.
func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Compatible reports whether a connection from a source port of type src to a
// target port of type dst is semantically valid. An unresolved side is never
// compatible. "any" matches everything; otherwise the types must be equal.
// There is no implicit coercion between the media types here: coercion is an
// execution-time concern of the payload normalizer, never of the type check.
func Compatible(src, dst Type) bool {
	if src == TypeUnknown || dst == TypeUnknown {
		return false
	}
	return src == TypeAny || dst == TypeAny || src == dst
}
