// Package resolve assembles the inputs a node sees at execution time by
// reading the published outputs of its upstream nodes. Several edges may
// feed the same input port; the resolver keeps every contribution, in edge
// declaration order, as an ordered sequence.
package resolve
