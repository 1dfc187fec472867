// Package render provides output formats for compound graph diagrams.
//
// Diagrams are produced by the [nodelink] subpackage, which emits DOT and
// renders SVG or PNG in-process through Graphviz. [ToPDF] converts an SVG
// to PDF with the external rsvg-convert tool (from librsvg):
//
//	dot := nodelink.ToDOT(snapshot, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/stackfold/pkg/render/nodelink
package render
