// Package pkg provides the core libraries for Stackfold compound graph folding.
//
// # Overview
//
// Stackfold works on compound graphs: graphs whose nodes may contain other
// nodes. Collapsing a compound node hides its subtree and replaces every
// edge that crossed the subtree's boundary by a projection edge on the
// collapsed node, one per (outside endpoint, direction). Expanding restores
// the subtree, its edges and the positions its members had relative to the
// parent. Afterwards the layout is reconciled, either by pushing overlapping
// nodes apart or by delegating to a layout engine such as Graphviz.
//
// # Architecture
//
// The typical data flow through Stackfold:
//
//	JSON node-link file
//	         ↓
//	    [graph] package (decode, validate containment)
//	         ↓
//	    [compound] package (in-memory compound graph)
//	         ↓
//	    [fold] package (collapse / expand / projections / visibility)
//	         ↓
//	    [layout] package (overlap resolution, layout coordinator, debounce)
//	         ↓
//	    [pipeline] + [render/nodelink] (JSON, DOT, SVG, PNG, PDF output)
//
// [session] ties these together for hosts that fold interactively.
//
// # Quick Start
//
// Collapse a node and render the result:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/stackfold/pkg/fold"
//	    "github.com/matzehuels/stackfold/pkg/layout"
//	    "github.com/matzehuels/stackfold/pkg/pipeline"
//	    "github.com/matzehuels/stackfold/pkg/session"
//	)
//
//	// 1. Load a graph with Graphviz as layout engine
//	s, _ := session.Open("graph.json", session.Options{Capability: layout.Graphviz{}})
//	defer s.Close()
//
//	// 2. Collapse a compound node
//	s.Collapse(fold.Node("services"))
//
//	// 3. Lay out the visible graph
//	err := <-s.RunLayout(context.Background())
//
//	// 4. Render to SVG
//	artifacts, _ := pipeline.Render(ctx, s.Snapshot(), pipeline.Options{Formats: []string{"svg"}})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [compound] - The compound graph model: nodes with optional parents,
// directed edges, positions and sizes. Hierarchy queries (children,
// descendants, ancestors, depth) and edge incidence queries.
//
// [fold] - The collapse/expand engine. Owns the collapsed set, one record
// per collapsed node, reason-tagged visibility, and the projection edges
// that stand in for hidden boundary edges. Emits collapse, expand and
// layout-reset events to a [fold.Sink].
//
// [layout] - Layout reconciliation: the overlap resolver, the coordinator
// that hands visible subsets to a layout capability, the per-key debouncer,
// and a Graphviz capability.
//
// [session] - A graph, its engine, resolver, coordinator and debouncer
// behind one lock, with optional auto layout after every change.
//
// ## Serialization
//
// [graph] - Serialization types for compound graphs (JSON node-link format
// with parent references and fold state flags).
//
// [config] - TOML configuration for layout and auto layout settings.
//
// ## Visualization
//
// [render/nodelink] - Directed graph diagrams using Graphviz. Expanded
// compound nodes become clusters; collapsed nodes and projection edges get
// their own styles.
//
// [render] - Format conversion (SVG to PDF).
//
// [pipeline] - Renders a folded graph in several formats at once.
//
// ## Infrastructure
//
// [cache] - File cache for layout results, wrapping any layout capability.
//
// [metrics] - Prometheus collectors fed by the [observability] hooks.
//
// [errors] - Structured error codes shared by all packages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/fold/...               # Specific package
//	go test -run Example                 # Examples only
//
// [compound]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/compound
// [fold]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/fold
// [layout]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/layout
// [session]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/session
// [graph]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/graph
// [config]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/cache
// [metrics]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/errors
// [fold.Sink]: https://pkg.go.dev/github.com/matzehuels/stackfold/pkg/fold#Sink
package pkg
