// Package fold implements reversible collapse and expand of compound-graph
// subtrees with edge projection.
//
// # Overview
//
// Collapsing a compound node hides its whole subtree and replaces every edge
// crossing the subtree boundary with aggregated projection edges, so the
// collapsed node presents as a single node to the rest of the graph.
// Expanding reverses the operation: descendants reappear in the same shape
// anchored to the parent's current position, original edges come back and
// the projection edges are deleted.
//
// The package is split into four cooperating parts, all owned by one
// [Engine] per graph:
//
//   - [Visibility]: the authoritative hidden set, with a reason tag per element
//   - [Positions]: parent-relative position snapshots taken before hiding
//   - projection builder: boundary classification and aggregation
//   - [Engine]: the per-node Expanded/Collapsed state machine
//
// # Projection
//
// When P collapses with descendants D, every edge touching D ∪ {P} is
// classified by how many endpoints lie inside:
//
//	both inside   -> internal: hidden, never projected
//	one inside    -> boundary: hidden and aggregated
//	none inside   -> unrelated
//
// Boundary edges are grouped by (direction, external node). Each group
// becomes exactly one projection edge, P -> X for outgoing groups and
// X -> P for incoming ones. Outgoing and incoming relationships to the same
// X therefore produce two projections, never one bidirectional edge.
//
// # Nesting
//
// Collapses compose. Every hidden node is owned by exactly one collapse
// record. Expanding an outer node hands descendants that still sit under a
// collapsed inner node to that inner node's record, so the inner subtree
// stays hidden until its own expand.
//
// # Errors
//
// Invalid transitions (collapsing a leaf, collapsing twice, expanding a
// node that is not collapsed) are no-ops reported through boolean results,
// never errors. Stale IDs are ignored.
//
// # Concurrency
//
// Engine is not safe for concurrent use. Each operation runs to completion
// synchronously; wrap the engine in a
// [github.com/matzehuels/stackfold/pkg/session.Session] to share it across
// goroutines.
package fold
