// Package assets persists the canonical reference strings a run produces
// into local files: data URIs are decoded, http(s) references downloaded,
// file references copied. The engine core never touches storage; the store
// runs after a flow completes, over the published data records.
package assets
