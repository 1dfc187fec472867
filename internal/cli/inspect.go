package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/session"
)

// inspectCommand creates the inspect command for summarizing a graph.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Summarize a graph and its compound nodes",
		Long: `Inspect prints element counts and one row per compound node: its depth,
fold state, direct children, and for collapsed nodes the number of nodes it
hides and projection edges it owns.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runInspect(ctx context.Context, input string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	cfg.AutoLayout = false

	s, err := c.openSession(ctx, input, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	printInfo("Inspecting %s", input)
	st := summarize(s)
	printKeyValue("Hidden", pct(st.HiddenNodes, st.Nodes)+" of nodes")

	if st.Compound == 0 {
		printNewline()
		printDetail("No compound nodes")
		return nil
	}
	printNewline()
	printTable(compoundTable(s))
	return nil
}

// compoundRow describes one compound node for display.
type compoundRow struct {
	ID          string
	Depth       int
	Children    int
	Collapsed   bool
	Hidden      bool
	HiddenNodes int
	Projections int
}

// compoundRows lists the session's compound nodes parents first.
func compoundRows(s *session.Session) []compoundRow {
	snap := s.Snapshot()
	parent := make(map[string]string, len(snap.Nodes))
	children := make(map[string]int)
	hidden := make(map[string]bool)
	for _, n := range snap.Nodes {
		parent[n.ID] = n.Parent
		hidden[n.ID] = n.Hidden
		if n.Parent != "" {
			children[n.Parent]++
		}
	}

	var rows []compoundRow
	for _, id := range s.Compounds() {
		r := compoundRow{ID: id, Children: children[id], Collapsed: s.IsCollapsed(id), Hidden: hidden[id]}
		for p := parent[id]; p != ""; p = parent[p] {
			r.Depth++
		}
		if rec, ok := s.Record(id); ok {
			r.HiddenNodes = len(rec.Hidden)
			r.Projections = len(rec.Projections)
		}
		rows = append(rows, r)
	}
	return rows
}

func compoundTable(s *session.Session) *table.Table {
	t := newTable("Node", "Depth", "Children", "State", "Hides", "Projections")
	for _, r := range compoundRows(s) {
		name := r.ID
		if r.Hidden {
			name = StyleDim.Render(name)
		}
		t.Row(name, strconv.Itoa(r.Depth), strconv.Itoa(r.Children), stateLabel(r.Collapsed),
			strconv.Itoa(r.HiddenNodes), strconv.Itoa(r.Projections))
	}
	return t
}
