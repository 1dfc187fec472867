// Package layout reconciles node positions after collapse and expand.
//
// It has three parts:
//
//   - [Resolver]: detects and iteratively separates overlapping nodes
//   - [Coordinator]: delegates global or local re-layout to a [Capability]
//   - [Debouncer]: coalesces rapid layout requests per trigger key
//
// # Overlap Resolution
//
// Only visible leaf nodes take part. Compound nodes are skipped because
// their extent is derived from their children. Each overlapping pair is
// pushed apart along the axis with the smaller overlap, each node moving
// half the overlap plus padding. Resolution runs at most MaxPasses passes;
// when overlaps remain it emits [fold.EventLayoutResetRequired] and reports
// failure so the caller can run a full layout.
//
// # Locality
//
// [Coordinator.RunLocalLayout] restricts layout to a node, its visible
// neighbors and its visible children. Every other visible node is
// snapshotted before delegation and restored afterwards, so a capability
// with global side effects cannot move nodes outside the neighborhood.
//
// # Capabilities
//
// [Graphviz] runs one of the Graphviz engines (dot, neato, fdp, ...) through
// github.com/goccy/go-graphviz. [Func] adapts a plain function, which is
// what tests use.
//
// # Concurrency
//
// Capabilities complete asynchronously. The coordinator applies results
// while holding the [sync.Locker] it was built with, the same lock that
// guards structural mutations in the session.
package layout
