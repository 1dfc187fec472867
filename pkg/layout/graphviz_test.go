package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/stackfold/pkg/compound"
)

func TestRequestDOT(t *testing.T) {
	req := Request{
		Nodes: []NodeSpec{
			{ID: "p", Compound: true},
			{ID: "a", Parent: "p", Width: 72, Height: 36},
			{ID: "x", Width: 36, Height: 36},
		},
		Edges: []EdgeSpec{
			{ID: "e1", Source: "a", Target: "x"},
			{ID: "e2", Source: "p", Target: "x"},
		},
		Options: Options{Spacing: 36},
	}
	dot := RequestDOT(req)

	for _, want := range []string{
		"digraph G",
		`subgraph "cluster_p"`,
		`"a" [width=1.000, height=0.500]`,
		`"a" -> "x"`,
		"nodesep=0.500",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("RequestDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"p" -> "x"`) {
		t.Error("RequestDOT() kept an edge to a cluster")
	}
}

func TestRequestDOTCollapsedCompoundIsNode(t *testing.T) {
	// A collapsed compound has no children in the request.
	dot := RequestDOT(Request{Nodes: []NodeSpec{{ID: "p", Compound: true}}})
	if strings.Contains(dot, "cluster_p") {
		t.Error("childless compound rendered as cluster")
	}
	if !strings.Contains(dot, `"p" [`) {
		t.Error("childless compound missing as node")
	}
}

func TestParsePos(t *testing.T) {
	tests := []struct {
		in     string
		want   compound.Point
		wantOK bool
	}{
		{"27,18", compound.Point{X: 27, Y: 18}, true},
		{"27.5,18!", compound.Point{X: 27.5, Y: 18}, true},
		{"", compound.Point{}, false},
		{"a,b", compound.Point{}, false},
	}
	for _, tt := range tests {
		got, ok := parsePos(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parsePos(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseBB(t *testing.T) {
	if w, h := parseBB("0,0,154,116"); w != 154 || h != 116 {
		t.Errorf("parseBB() = %v, %v, want 154, 116", w, h)
	}
	if w, h := parseBB("bad"); w != 0 || h != 0 {
		t.Errorf("parseBB(bad) = %v, %v, want 0, 0", w, h)
	}
}

func TestFitClusters(t *testing.T) {
	req := Request{Nodes: []NodeSpec{
		{ID: "r"},
		{ID: "p", Parent: "r"},
		{ID: "a", Parent: "p", Width: 10, Height: 10},
		{ID: "b", Parent: "p", Width: 10, Height: 10},
	}}
	pos := map[string]compound.Point{
		"a": {X: 0, Y: 0},
		"b": {X: 40, Y: 20},
	}
	fitClusters(req, pos)
	if got := pos["p"]; got != (compound.Point{X: 20, Y: 10}) {
		t.Errorf("p = %v, want {20 10}", got)
	}
	if got := pos["r"]; got != (compound.Point{X: 20, Y: 10}) {
		t.Errorf("r = %v, want {20 10}", got)
	}
}

func TestAnchor(t *testing.T) {
	nodes := []NodeSpec{
		{ID: "a", X: 100, Y: 100, Width: 10, Height: 10},
		{ID: "b", X: 200, Y: 100, Width: 10, Height: 10},
	}

	pos := map[string]compound.Point{"a": {X: 0, Y: 0}, "b": {X: 50, Y: 0}}
	anchor(Request{Nodes: nodes}, pos)
	if pos["a"] != (compound.Point{X: 125, Y: 100}) || pos["b"] != (compound.Point{X: 175, Y: 100}) {
		t.Errorf("centroid anchor = %v", pos)
	}

	pos = map[string]compound.Point{"a": {X: 0, Y: 0}, "b": {X: 50, Y: 0}}
	anchor(Request{Nodes: nodes, Options: Options{Fit: true, Padding: 8}}, pos)
	if pos["a"] != (compound.Point{X: 13, Y: 13}) {
		t.Errorf("fit anchor a = %v, want {13 13}", pos["a"])
	}
}

func TestRunGraphvizUnknownAlgorithm(t *testing.T) {
	_, err := RunGraphviz(context.Background(), Request{Algorithm: "spring"})
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("RunGraphviz() error = %v, want %v", err, ErrUnknownAlgorithm)
	}
}

func TestGraphvizCapability(t *testing.T) {
	req := Request{
		Algorithm: "dot",
		Nodes: []NodeSpec{
			{ID: "a", Width: 30, Height: 30},
			{ID: "b", Width: 30, Height: 30},
			{ID: "c", Width: 30, Height: 30},
		},
		Edges: []EdgeSpec{
			{ID: "ab", Source: "a", Target: "b"},
			{ID: "bc", Source: "b", Target: "c"},
		},
	}

	var res Result
	var err error
	Graphviz{}.Run(context.Background(), req, func(r Result, e error) { res, err = r, e })
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(res.Positions) != 3 {
		t.Fatalf("positions = %v, want 3 entries", res.Positions)
	}
	// dot ranks top to bottom; y grows downwards after the flip.
	if !(res.Positions["a"].Y < res.Positions["b"].Y && res.Positions["b"].Y < res.Positions["c"].Y) {
		t.Errorf("ranks not ordered top to bottom: %v", res.Positions)
	}
}
