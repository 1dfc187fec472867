// Package nodelink renders compound graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as boxes connected by arrows and expanded compound nodes
// appear as clusters around their children. It renders the serialized
// snapshot produced by [graph.FromCompound] (or a session), so the diagram
// reflects the current collapse state:
//
//   - Collapsed nodes are bold and grey, labelled with the number of nodes
//     they hide.
//   - Projection edges are dashed and labelled with the number of original
//     edges they aggregate.
//   - Hidden nodes and edges are omitted.
//
// # Usage
//
//	dot := nodelink.ToDOT(snapshot, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include all metadata.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. PDF conversion lives in [render.ToPDF].
//
// [render.ToPDF]: github.com/matzehuels/stackfold/pkg/render
package nodelink
