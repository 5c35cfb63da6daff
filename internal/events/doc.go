// Package events publishes run and node lifecycle notifications. The
// executor emits; sinks fan out to the log and, when configured, to a
// socket.io endpoint a canvas UI subscribes to for live per-node status.
package events
