// Package executor drives a flow run. It asks the scheduler for a total
// order, pre-flights every node with the readiness validator, then executes
// nodes one at a time: resolving inputs, invoking the registered generator,
// normalizing its result, and publishing it into the node's data record.
// Execution is strictly serial, so a node's predecessors have always
// published before it starts.
package executor
