package payload

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeRecord interprets a string as a JSON object, repairing the common
// damage language models inflict on their own JSON (trailing commas, single
// quotes, fenced blocks) before giving up. Back-end modules use this to turn
// a model's structured reply into a record the normalizer understands; the
// core normalization rules never call it.
func DecodeRecord(s string) (map[string]any, bool) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, true
	}
	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil, false
	}
	return out, true
}
