// Package compound provides an in-memory compound graph: nodes that may own
// other nodes (parent back-references) plus directed edges between any two
// nodes.
//
// # Overview
//
// A compound graph mixes two relations over one node set:
//
//   - Containment: every node has at most one parent. A node with at least
//     one child is a compound (container) node.
//   - Connectivity: directed edges connect arbitrary nodes, across any level
//     of the containment hierarchy.
//
// The collapse engine in [github.com/matzehuels/stackfold/pkg/fold] and the
// layout coordinator in [github.com/matzehuels/stackfold/pkg/layout] consume
// [Graph] through small interfaces; this package owns element storage,
// hierarchy queries and positions, and knows nothing about visibility.
//
// # Basic Usage
//
// Parents must be added before their children. Node and edge IDs share one
// namespace:
//
//	g := compound.New()
//	g.AddNode(compound.Node{ID: "svc"})
//	g.AddNode(compound.Node{ID: "api", Parent: "svc", X: 10, Y: 20})
//	g.AddNode(compound.Node{ID: "db"})
//	g.AddEdge(compound.Edge{ID: "e1", Source: "api", Target: "db"})
//
// # Ordering
//
// Nodes, edges, children and incident edges are indexed with ordered B-trees,
// so every listing is sorted by ID. Algorithms built on top (projection
// grouping, overlap sweeps) are deterministic as a result.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access; [github.com/matzehuels/stackfold/pkg/session] does this with one
// mutex per graph.
package compound
