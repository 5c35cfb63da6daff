// Package payload coerces the weakly-typed values produced by generation
// back-ends into the canonical shape downstream nodes consume. Every
// function here is total: malformed input degrades to a null envelope or a
// stringified fallback, never an error, so garbage upstream data propagates
// as an empty value instead of aborting a run.
//
// Canonical shapes per semantic type: text is a single string; image is a
// single reference string or an ordered list of them; video and 3d are a
// single reference string (lists collapse to their first element). A
// reference string starts with a type-appropriate data-URI prefix or with
// http://, https://, or file://.
package payload
