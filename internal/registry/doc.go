// Package registry connects node kinds to the Go handlers that execute
// them. Back-end modules self-register through the Module interface at
// startup; the executor looks handlers up by node kind at run time.
package registry
