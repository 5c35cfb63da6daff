// Package app wires the engine together: logger, node-kind manifests,
// generator modules, flow loading, lifecycle events, execution, and artifact
// persistence. It owns the application lifecycle from parsed CLI config to
// run completion.
package app
