// Package validate pre-flights a node before execution: every semantically
// required input must be wired to an incoming edge or backed by an adequate
// local value. Requirements are a declarative table keyed by node kind, so
// adding a kind is a data change. The validator only reports; it never
// mutates and never fails.
package validate
