// Package memory provides in-memory implementations of the store
// interfaces. Records live in per-entity maps guarded by read-write
// mutexes, so every store operation is atomic even under concurrent
// request handling; sequences of operations (read, compute, write) are
// last-writer-wins, with no optimistic versioning.
//
// The backend is volatile: nothing survives a process restart. It backs
// local development and tests; production deployments use the postgres
// backend behind the same interfaces.
//
// Stores hand out copies of their records, never aliases into the map, so
// callers cannot mutate stored state without going through an operation.
// WithTx is a no-op returning the same store; there are no transactions to
// join.
package memory
