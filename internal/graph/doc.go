// Package graph holds the in-memory model of a flow: nodes with open data
// records and directed port-to-port edges. It is pure data plus accessors;
// scheduling, resolution, and validation live in their own packages.
package graph
