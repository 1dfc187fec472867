package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackfold/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes metadata in node labels.
	// When false, only the display label is shown.
	Detailed bool
}

// ToDOT converts a serialized compound graph to Graphviz DOT format.
// Hidden nodes and edges are skipped, so passing the full snapshot or
// [graph.Visible] of it yields the same diagram.
//
// Expanded compound nodes with visible children become clusters. Collapsed
// nodes are drawn bold with a grey fill and the number of nodes they hide.
// Projection edges are dashed and labelled with the number of original
// edges they stand in for.
func ToDOT(g graph.Graph, opts Options) string {
	v := newView(g)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var write func(parent, indent string)
	write = func(parent, indent string) {
		for _, n := range v.children[parent] {
			if v.cluster(n.ID) {
				fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, clusterName(n.ID))
				fmt.Fprintf(&buf, "%s  label=%q;\n", indent, fmtLabel(*n, opts.Detailed))
				fmt.Fprintf(&buf, "%s  style=\"rounded\";\n", indent)
				write(n.ID, indent+"  ")
				fmt.Fprintf(&buf, "%s}\n", indent)
				continue
			}
			label := fmtLabel(*n, opts.Detailed)
			attrs := fmtAttrs(*n, label, v.hiddenBelow(n.ID))
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs, ", "))
		}
	}
	write("", "  ")

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Hidden || !v.visible[e.From] || !v.visible[e.To] {
			continue
		}
		from, ltail := v.endpoint(e.From)
		to, lhead := v.endpoint(e.To)
		if from == to && (ltail != "" || lhead != "") {
			continue
		}
		var attrs []string
		if ltail != "" {
			attrs = append(attrs, fmt.Sprintf("ltail=%q", ltail))
		}
		if lhead != "" {
			attrs = append(attrs, fmt.Sprintf("lhead=%q", lhead))
		}
		if e.Projection {
			attrs = append(attrs, "style=dashed")
			if c, ok := e.Meta["count"]; ok {
				attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprint(c)))
			}
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// view indexes the visible part of a serialized graph.
type view struct {
	nodes    map[string]*graph.Node
	children map[string][]*graph.Node // visible children by parent, "" for roots
	visible  map[string]bool
	parent   map[string]string
}

func newView(g graph.Graph) *view {
	v := &view{
		nodes:    make(map[string]*graph.Node, len(g.Nodes)),
		children: make(map[string][]*graph.Node),
		visible:  make(map[string]bool, len(g.Nodes)),
		parent:   make(map[string]string, len(g.Nodes)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		v.nodes[n.ID] = n
		v.parent[n.ID] = n.Parent
		if !n.Hidden {
			v.visible[n.ID] = true
		}
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if !v.visible[n.ID] {
			continue
		}
		// A visible node under a hidden parent is drawn at the top level.
		p := n.Parent
		if p != "" && !v.visible[p] {
			p = ""
		}
		v.children[p] = append(v.children[p], n)
	}
	for _, ch := range v.children {
		slices.SortFunc(ch, func(a, b *graph.Node) int { return strings.Compare(a.ID, b.ID) })
	}
	return v
}

// cluster reports whether id is drawn as a cluster.
func (v *view) cluster(id string) bool { return len(v.children[id]) > 0 }

// endpoint maps an edge endpoint to a drawable node. Clusters are entered
// through their first leaf and clipped at the cluster border.
func (v *view) endpoint(id string) (node, clip string) {
	if !v.cluster(id) {
		return id, ""
	}
	cur := id
	for v.cluster(cur) {
		cur = v.children[cur][0].ID
	}
	return cur, clusterName(id)
}

// hiddenBelow counts hidden nodes under a collapsed node.
func (v *view) hiddenBelow(id string) int {
	n, ok := v.nodes[id]
	if !ok || !n.Collapsed {
		return 0
	}
	count := 0
	for nid := range v.nodes {
		if v.visible[nid] {
			continue
		}
		for p, steps := v.parent[nid], 0; p != "" && steps <= len(v.nodes); p, steps = v.parent[p], steps+1 {
			if p == id {
				count++
				break
			}
		}
	}
	return count
}

func clusterName(id string) string { return "cluster_" + id }

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed || len(n.Meta) == 0 {
		return label
	}

	var parts []string
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string, hidden int) []string {
	if n.Collapsed {
		if hidden > 0 {
			label = fmt.Sprintf("%s (+%d)", label, hidden)
		}
		return []string{fmt.Sprintf("label=%q", label), "style=\"rounded,filled,bold\"", "fillcolor=lightgrey", "penwidth=2"}
	}
	return []string{fmt.Sprintf("label=%q", label)}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
