// Package handle is the type system of the flow graph. It declares, per node
// kind, the named input and output ports a node exposes and the semantic type
// each port carries. Declarations live in HCL manifests embedded in the
// binary; the registry answers type lookups for the resolver and the
// connection compatibility check for the UI layer.
package handle
