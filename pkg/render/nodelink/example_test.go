package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/graph"
	"github.com/matzehuels/stackfold/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := compound.New()
	_ = g.AddNode(compound.Node{ID: "svc"})
	_ = g.AddNode(compound.Node{ID: "api", Parent: "svc"})
	_ = g.AddNode(compound.Node{ID: "db"})
	_ = g.AddEdge(compound.Edge{ID: "e1", Source: "api", Target: "db"})

	e := fold.New(g, fold.Options{})
	e.CollapseNode("svc")

	dot := nodelink.ToDOT(graph.FromCompound(g, e), nodelink.Options{})
	fmt.Println("collapsed:", strings.Contains(dot, `"svc (+1)"`))
	fmt.Println("api drawn:", strings.Contains(dot, `"api"`))
	fmt.Println("dashed:", strings.Contains(dot, "style=dashed"))
	// Output:
	// collapsed: true
	// api drawn: false
	// dashed: true
}
