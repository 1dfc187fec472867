package graph

// Visible returns a copy of gj without hidden nodes and edges. Edges whose
// endpoints were dropped are dropped too.
func Visible(gj Graph) Graph {
	keep := make(map[string]bool, len(gj.Nodes))
	out := Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, n := range gj.Nodes {
		if n.Hidden {
			continue
		}
		keep[n.ID] = true
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range gj.Edges {
		if e.Hidden || !keep[e.From] || !keep[e.To] {
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}

// Stats summarizes a serialized graph.
type Stats struct {
	Nodes, Edges       int
	Compound           int
	Collapsed          int
	HiddenNodes        int
	HiddenEdges        int
	ProjectionEdges    int
	VisibleProjections int
}

// Summarize counts the elements of gj by kind and state.
func Summarize(gj Graph) Stats {
	parents := make(map[string]bool)
	for _, n := range gj.Nodes {
		if n.Parent != "" {
			parents[n.Parent] = true
		}
	}
	s := Stats{Nodes: len(gj.Nodes), Edges: len(gj.Edges)}
	for _, n := range gj.Nodes {
		if parents[n.ID] {
			s.Compound++
		}
		if n.Collapsed {
			s.Collapsed++
		}
		if n.Hidden {
			s.HiddenNodes++
		}
	}
	for _, e := range gj.Edges {
		if e.Hidden {
			s.HiddenEdges++
		}
		if e.Projection {
			s.ProjectionEdges++
			if !e.Hidden {
				s.VisibleProjections++
			}
		}
	}
	return s
}
