package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackfold/pkg/compound"
)

// ErrUnknownAlgorithm is returned for algorithm names Graphviz does not
// provide.
var ErrUnknownAlgorithm = errors.New("layout: unknown algorithm")

// Algorithms lists the Graphviz engines accepted by [Graphviz].
var Algorithms = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// pointsPerInch converts model units (points) to Graphviz inches.
const pointsPerInch = 72.0

// Graphviz is a Capability backed by the Graphviz engines compiled into
// github.com/goccy/go-graphviz. Compound nodes whose children are part of
// the request become clusters; edges touching a cluster are dropped
// because Graphviz cannot route to clusters directly.
type Graphviz struct{}

// Run lays out req synchronously and calls done with the result.
func (Graphviz) Run(ctx context.Context, req Request, done func(Result, error)) {
	done(RunGraphviz(ctx, req))
}

// ValidAlgorithm reports whether name is a supported Graphviz engine.
func ValidAlgorithm(name string) bool { return slices.Contains(Algorithms, name) }

// RunGraphviz renders req with Graphviz and reads back node centers.
func RunGraphviz(ctx context.Context, req Request) (Result, error) {
	alg := req.Algorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}
	if !ValidAlgorithm(alg) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	if len(req.Nodes) == 0 {
		return Result{Positions: map[string]compound.Point{}}, nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(alg))

	g, err := graphviz.ParseBytes([]byte(RequestDOT(req)))
	if err != nil {
		return Result{}, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return Result{}, fmt.Errorf("render: %w", err)
	}

	out, err := graphviz.ParseBytes(buf.Bytes())
	if err != nil {
		return Result{}, fmt.Errorf("parse layout: %w", err)
	}
	defer out.Close()

	_, height := parseBB(out.GetStr("bb"))
	pos := make(map[string]compound.Point)
	n, err := out.FirstNode()
	for n != nil && err == nil {
		name, nerr := n.Name()
		if nerr == nil {
			if p, ok := parsePos(n.GetStr("pos")); ok {
				pos[name] = compound.Point{X: p.X, Y: height - p.Y}
			}
		}
		n, err = out.NextNode(n)
	}
	if err != nil {
		return Result{}, fmt.Errorf("read positions: %w", err)
	}

	fitClusters(req, pos)
	anchor(req, pos)
	return Result{Positions: pos}, nil
}

// RequestDOT renders req as a DOT graph. Node sizes are fixed so Graphviz
// positions boxes of the real extent.
func RequestDOT(req Request) string {
	children := make(map[string][]NodeSpec)
	clusters := make(map[string]bool)
	for _, n := range req.Nodes {
		children[n.Parent] = append(children[n.Parent], n)
		if n.Parent != "" {
			clusters[n.Parent] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	if s := req.Options.Spacing; s > 0 {
		in := strconv.FormatFloat(s/pointsPerInch, 'f', 3, 64)
		fmt.Fprintf(&buf, "  nodesep=%s;\n  ranksep=%s;\n", in, in)
	}

	var write func(parent, indent string)
	write = func(parent, indent string) {
		for _, n := range children[parent] {
			if clusters[n.ID] {
				fmt.Fprintf(&buf, "%ssubgraph %q {\n", indent, "cluster_"+n.ID)
				write(n.ID, indent+"  ")
				fmt.Fprintf(&buf, "%s}\n", indent)
				continue
			}
			fmt.Fprintf(&buf, "%s%q [width=%s, height=%s];\n", indent, n.ID, inches(n.Width), inches(n.Height))
		}
	}
	write("", "  ")

	for _, e := range req.Edges {
		if clusters[e.Source] || clusters[e.Target] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func inches(v float64) string {
	if v <= 0 {
		v = compound.DefaultWidth
	}
	return strconv.FormatFloat(v/pointsPerInch, 'f', 3, 64)
}

// parsePos parses a Graphviz "x,y" position, ignoring a trailing "!".
func parsePos(s string) (compound.Point, bool) {
	x, y, ok := strings.Cut(strings.TrimSuffix(s, "!"), ",")
	if !ok {
		return compound.Point{}, false
	}
	px, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return compound.Point{}, false
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return compound.Point{}, false
	}
	return compound.Point{X: px, Y: py}, true
}

// parseBB parses a Graphviz "llx,lly,urx,ury" bounding box into its extent.
func parseBB(s string) (width, height float64) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return 0, 0
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0
		}
		v[i] = f
	}
	return v[2] - v[0], v[3] - v[1]
}

// fitClusters centers every cluster node on the bounding box of its laid
// out children, innermost first.
func fitClusters(req Request, pos map[string]compound.Point) {
	depth := make(map[string]int)
	parent := make(map[string]string)
	size := make(map[string][2]float64)
	for _, n := range req.Nodes {
		parent[n.ID] = n.Parent
		size[n.ID] = [2]float64{n.Width, n.Height}
	}
	var order []string
	for _, n := range req.Nodes {
		d := 0
		for p := n.Parent; p != ""; p = parent[p] {
			d++
		}
		depth[n.ID] = d
		order = append(order, n.ID)
	}
	slices.SortStableFunc(order, func(a, b string) int { return depth[b] - depth[a] })

	boxes := make(map[string]Box)
	for _, id := range order {
		if b, ok := boxes[id]; ok {
			pos[id] = b.Center()
		}
		p, ok := pos[id]
		if !ok {
			continue
		}
		b := BoxOf(p, size[id][0], size[id][1])
		if cb, ok := boxes[id]; ok {
			b = cb
		}
		if par := parent[id]; par != "" {
			if pb, ok := boxes[par]; ok {
				boxes[par] = pb.Union(b)
			} else {
				boxes[par] = b
			}
		}
	}
}

// anchor translates positions back into the caller's coordinate space. With
// Fit the subset's top-left corner lands on (Padding, Padding); otherwise
// the subset keeps its previous centroid.
func anchor(req Request, pos map[string]compound.Point) {
	if len(pos) == 0 {
		return
	}
	var shift compound.Point
	if req.Options.Fit {
		var bb Box
		first := true
		for _, n := range req.Nodes {
			p, ok := pos[n.ID]
			if !ok {
				continue
			}
			b := BoxOf(p, n.Width, n.Height)
			if first {
				bb, first = b, false
			} else {
				bb = bb.Union(b)
			}
		}
		shift = compound.Point{X: req.Options.Padding - bb.MinX, Y: req.Options.Padding - bb.MinY}
	} else {
		var before, after compound.Point
		count := 0.0
		for _, n := range req.Nodes {
			p, ok := pos[n.ID]
			if !ok {
				continue
			}
			before = before.Add(compound.Point{X: n.X, Y: n.Y})
			after = after.Add(p)
			count++
		}
		if count == 0 {
			return
		}
		shift = compound.Point{X: (before.X - after.X) / count, Y: (before.Y - after.Y) / count}
	}
	for id, p := range pos {
		pos[id] = p.Add(shift)
	}
}
