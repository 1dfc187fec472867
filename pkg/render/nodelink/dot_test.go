package nodelink

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/stackfold/pkg/graph"
)

func collapsedSnapshot() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "svc", Collapsed: true},
			{ID: "api", Parent: "svc", Hidden: true},
			{ID: "worker", Parent: "svc", Hidden: true},
			{ID: "db"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "api", To: "db", Hidden: true},
			{ID: "e2", From: "worker", To: "db", Hidden: true},
			{ID: "proj-1", From: "svc", To: "db", Projection: true, Meta: map[string]any{"count": 2}},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{{ID: "ab", From: "a", To: "b"}},
	}

	dot := ToDOT(g, Options{})

	for _, want := range []string{"digraph G", `"a"`, `"b"`, `"a" -> "b";`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
}

func TestToDOT_Collapsed(t *testing.T) {
	dot := ToDOT(collapsedSnapshot(), Options{})

	if strings.Contains(dot, `"api"`) || strings.Contains(dot, `"worker"`) {
		t.Error("ToDOT() rendered hidden children")
	}
	if !strings.Contains(dot, `label="svc (+2)"`) {
		t.Error("ToDOT() collapsed node missing hidden count")
	}
	if !strings.Contains(dot, "lightgrey") {
		t.Error("ToDOT() collapsed node missing lightgrey fill")
	}
	if !strings.Contains(dot, `"svc" -> "db" [style=dashed, label="2"]`) {
		t.Errorf("ToDOT() projection edge not dashed with count:\n%s", dot)
	}
	if strings.Contains(dot, "subgraph") {
		t.Error("ToDOT() drew a cluster for a collapsed node")
	}
}

func TestToDOT_Clusters(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "svc"},
			{ID: "api", Parent: "svc"},
			{ID: "db"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "api", To: "db"},
			{ID: "e2", From: "db", To: "svc"},
			{ID: "e3", From: "svc", To: "api"},
		},
	}

	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, `subgraph "cluster_svc"`) {
		t.Errorf("ToDOT() missing cluster:\n%s", dot)
	}
	if !strings.Contains(dot, `"db" -> "api" [lhead="cluster_svc"]`) {
		t.Errorf("ToDOT() edge to cluster not clipped:\n%s", dot)
	}
	if strings.Contains(dot, `"api" -> "api"`) {
		t.Error("ToDOT() drew an edge from a cluster into itself")
	}
}

func TestFmtLabel(t *testing.T) {
	n := graph.Node{ID: "test-node", Label: "Test", Meta: map[string]any{"team": "core", "tier": 2}}

	if got := fmtLabel(n, false); got != "Test" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "Test")
	}
	if got, want := fmtLabel(n, true), "Test\nteam: core\ntier: 2"; got != want {
		t.Errorf("fmtLabel() detailed mode = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := normalizeViewBox(in)
	if !bytes.Contains(out, []byte(`viewBox="0 0 100.00 50.00" width="100" height="50"`)) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(collapsedSnapshot(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("RenderSVG() output is not SVG")
	}
}
