package payload

// Kind tags the variant held by an Envelope.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindImageRef
	KindImageList
	KindVideoRef
	KindModelRef
	KindRaw
)

// String returns the variant name, for logs.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImageRef:
		return "imageRef"
	case KindImageList:
		return "imageList"
	case KindVideoRef:
		return "videoRef"
	case KindModelRef:
		return "modelRef"
	case KindRaw:
		return "raw"
	default:
		return "null"
	}
}

// Envelope is the canonical, tagged representation of a normalized payload.
// Consumers switch on Kind instead of shape-checking arbitrary values. The
// zero Envelope is the null envelope.
type Envelope struct {
	kind Kind
	str  string
	list []string
	raw  any
}

// Text wraps a normalized text payload.
func Text(s string) Envelope { return Envelope{kind: KindText, str: s} }

// ImageRef wraps a single image reference string.
func ImageRef(ref string) Envelope { return Envelope{kind: KindImageRef, str: ref} }

// ImageList wraps an ordered list of image reference strings.
func ImageList(refs []string) Envelope { return Envelope{kind: KindImageList, list: refs} }

// VideoRef wraps a single video reference string.
func VideoRef(ref string) Envelope { return Envelope{kind: KindVideoRef, str: ref} }

// ModelRef wraps a single 3d model reference string.
func ModelRef(ref string) Envelope { return Envelope{kind: KindModelRef, str: ref} }

// RawValue wraps a value passing through an "any" typed port untouched.
func RawValue(v any) Envelope { return Envelope{kind: KindRaw, raw: v} }

// Kind returns the variant tag.
func (e Envelope) Kind() Kind { return e.kind }

// IsNull reports whether normalization produced nothing.
func (e Envelope) IsNull() bool { return e.kind == KindNull }

// Empty reports whether the envelope carries no usable value: null, an empty
// text payload, an empty reference list, or a nil raw value.
func (e Envelope) Empty() bool {
	switch e.kind {
	case KindNull:
		return true
	case KindText:
		return e.str == ""
	case KindImageList:
		return len(e.list) == 0
	case KindRaw:
		return e.raw == nil
	default:
		return e.str == ""
	}
}

// Interface returns the canonical plain value for storage in a node data
// record: a string, a []string, the raw value, or nil for the null envelope.
func (e Envelope) Interface() any {
	switch e.kind {
	case KindNull:
		return nil
	case KindImageList:
		return e.list
	case KindRaw:
		return e.raw
	default:
		return e.str
	}
}

// String renders the payload as text: the text or reference itself, list
// entries joined with newlines, and raw values via ToText.
func (e Envelope) String() string {
	switch e.kind {
	case KindNull:
		return ""
	case KindImageList:
		return ToText(e.list)
	case KindRaw:
		return ToText(e.raw)
	default:
		return e.str
	}
}

// Refs returns the reference strings the envelope carries. Text and raw
// envelopes have none.
func (e Envelope) Refs() []string {
	switch e.kind {
	case KindImageRef, KindVideoRef, KindModelRef:
		return []string{e.str}
	case KindImageList:
		out := make([]string, len(e.list))
		copy(out, e.list)
		return out
	default:
		return nil
	}
}
