package fold_test

import (
	"fmt"

	"github.com/matzehuels/stackfold/pkg/compound"
	"github.com/matzehuels/stackfold/pkg/fold"
)

func ExampleEngine_Collapse() {
	// A service with two handlers, both talking to the same database
	g := compound.New()
	_ = g.AddNode(compound.Node{ID: "svc"})
	_ = g.AddNode(compound.Node{ID: "get", Parent: "svc"})
	_ = g.AddNode(compound.Node{ID: "put", Parent: "svc"})
	_ = g.AddNode(compound.Node{ID: "db"})
	_ = g.AddEdge(compound.Edge{ID: "e1", Source: "get", Target: "db"})
	_ = g.AddEdge(compound.Edge{ID: "e2", Source: "put", Target: "db"})

	e := fold.New(g, fold.Options{})
	fmt.Println("Collapsed:", e.Collapse(fold.Node("svc")))
	fmt.Println("Handler hidden:", e.IsHidden("get"))
	for _, p := range e.ProjectedEdges("svc") {
		fmt.Printf("Projection: %s -> %s (%v edges)\n", p.Source, p.Target, p.Meta[fold.MetaCount])
	}

	fmt.Println("Expanded:", e.Expand(fold.Node("svc")))
	fmt.Println("Edge hidden:", e.IsHidden("e1"))
	// Output:
	// Collapsed: true
	// Handler hidden: true
	// Projection: svc -> db (2 edges)
	// Expanded: true
	// Edge hidden: false
}

func ExampleEngine_Collapse_leaf() {
	// Collapsing a leaf is a no-op, not an error
	g := compound.New()
	_ = g.AddNode(compound.Node{ID: "leaf"})

	e := fold.New(g, fold.Options{})
	fmt.Println("Collapsed:", e.Collapse(fold.Node("leaf")))
	fmt.Println("IsCollapsed:", e.IsCollapsed("leaf"))
	// Output:
	// Collapsed: false
	// IsCollapsed: false
}
