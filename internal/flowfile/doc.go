// Package flowfile loads flow graphs from the JSON documents a canvas UI
// exports: nodes with open data records, edges as port-to-port connections.
// A path may name a single file or a directory of *.flow.json files, which
// merge into one graph in file-name order.
package flowfile
