// Package schedule computes the total execution order of a flow graph. The
// order is deterministic: ties are broken by the order nodes were declared
// and, for nodes unlocked mid-run, by edge declaration order. Reproducible
// scheduling is part of the engine's contract, so the ready queue is an
// explicit FIFO slice, never a map.
package schedule
