// Package graph provides the JSON file format for compound graphs.
//
// This package sits at the serialization boundary between the in-memory
// [compound.Graph] and files on disk:
//
//   - [Graph], [Node], [Edge]: serialization types (this package)
//   - compound.Graph: internal graph representation
//
// Use [FromCompound]/[ToCompound] to convert between them.
//
// # Format
//
// Graphs use a node-link JSON format. Containment is expressed with a
// parent reference; positions are node centers:
//
//	{
//	  "nodes": [
//	    {"id": "svc"},
//	    {"id": "api", "parent": "svc", "x": 10, "y": 20},
//	    {"id": "db"}
//	  ],
//	  "edges": [{"from": "api", "to": "db"}]
//	}
//
// On output every node and edge also carries its engine state: "hidden",
// "collapsed" and, for synthetic edges, "projection". Projection edges are
// skipped on input; the "collapsed" flags are returned by [Collapsed] so a
// caller can re-apply them to a fresh engine.
//
// Common operations:
//
//	g, gj, _ := graph.Load("graph.json")         // File → compound.Graph
//	graph.WriteFile(g, engine, "output.json")    // compound.Graph → File
//	data, _ := graph.Marshal(g, nil)             // compound.Graph → []byte
//	parsed, _ := graph.Unmarshal(data)           // []byte → Graph
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
