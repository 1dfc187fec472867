package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/graph"
	"github.com/matzehuels/stackfold/pkg/session"
)

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command: an interactive tree view
// for folding a graph.
func (c *CLI) exploreCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "explore [graph.json]",
		Short: "Fold and unfold a graph interactively",
		Long: `Explore shows the visible nodes of a compound graph as a tree. Compound
nodes can be collapsed and expanded with enter; with auto_layout enabled each
change schedules a debounced local layout.

Keys:
  ↑/↓ j/k   navigate
  ⏎ space   toggle the selected compound node
  c / e     collapse all / expand all
  l         run a global layout
  o         resolve overlaps
  w         write the graph to --output (default: overwrite input)
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by 'w' (default: overwrite input)")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, input, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openSession(ctx, input, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if output == "" {
		output = input
	}
	if err := errors.ValidatePath(output); err != nil {
		return err
	}

	m := newExploreModel(ctx, s, output)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	if fm, ok := final.(exploreModel); ok && fm.written {
		printSuccess("Wrote %s", output)
	}
	s.Wait()
	summarize(s)
	return nil
}

// =============================================================================
// exploreModel - Interactive tree of the visible graph
// =============================================================================

// treeRow is one visible node in depth-first order.
type treeRow struct {
	ID        string
	Depth     int
	Compound  bool
	Collapsed bool
	Hides     int
}

// layoutDoneMsg reports the end of a layout started from the view.
type layoutDoneMsg struct{ err error }

type exploreModel struct {
	ctx     context.Context
	session *session.Session
	output  string

	rows    []treeRow
	cursor  int
	offset  int
	height  int
	status  string
	busy    bool
	written bool
}

func newExploreModel(ctx context.Context, s *session.Session, output string) exploreModel {
	m := exploreModel{ctx: ctx, session: s, output: output, height: 15}
	m.refresh()
	return m
}

// refresh rebuilds the rows from the session, keeping the cursor on the
// same node when it is still visible.
func (m *exploreModel) refresh() {
	selected := ""
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].ID
	}
	m.rows = treeRows(m.session)
	m.cursor = 0
	for i, r := range m.rows {
		if r.ID == selected {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

// treeRows lists the visible nodes of s depth first, children in id order.
func treeRows(s *session.Session) []treeRow {
	gj := s.Snapshot()
	children := make(map[string][]graph.Node)
	for _, n := range gj.Nodes {
		if !n.Hidden {
			children[n.Parent] = append(children[n.Parent], n)
		}
	}
	hasChildren := make(map[string]bool)
	for _, n := range gj.Nodes {
		if n.Parent != "" {
			hasChildren[n.Parent] = true
		}
	}

	var rows []treeRow
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, n := range children[parent] {
			r := treeRow{ID: n.ID, Depth: depth, Compound: hasChildren[n.ID], Collapsed: n.Collapsed}
			if rec, ok := s.Record(n.ID); ok {
				r.Hides = len(rec.Hidden)
			}
			rows = append(rows, r)
			walk(n.ID, depth+1)
		}
	}
	walk("", 0)
	return rows
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.scroll()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.scroll()
			}
		case "enter", " ", "space":
			if m.cursor < len(m.rows) && m.rows[m.cursor].Compound {
				id := m.rows[m.cursor].ID
				if m.session.Toggle(id) {
					m.status = toggleStatus(id, m.session.IsCollapsed(id))
				}
				m.refresh()
			}
		case "c":
			if m.session.CollapseAll() {
				m.status = "Collapsed all"
			}
			m.refresh()
		case "e":
			if m.session.ExpandAll() {
				m.status = "Expanded all"
			}
			m.refresh()
		case "o":
			if m.session.ResolveOverlaps() {
				m.status = "No overlaps"
			} else {
				m.status = fmt.Sprintf("%d overlaps remain", len(m.session.Overlaps()))
			}
		case "l":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Computing layout..."
			return m, m.layoutCmd()
		case "w":
			if err := m.session.WriteFile(m.output); err != nil {
				m.status = "Write failed: " + err.Error()
			} else {
				m.written = true
				m.status = "Wrote " + m.output
			}
		}
	case layoutDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Layout failed: " + msg.err.Error()
		} else {
			m.status = "Layout done"
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 7
		if m.height < 5 {
			m.height = 5
		}
		m.scroll()
	}
	return m, nil
}

func (m exploreModel) layoutCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return layoutDoneMsg{err: <-s.RunLayout(ctx)}
	}
}

func toggleStatus(id string, collapsed bool) string {
	if collapsed {
		return "Collapsed " + id
	}
	return "Expanded " + id
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore"))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  ⏎ toggle  c/e collapse/expand all  l layout  o overlaps  w write  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}
	if len(m.rows) > m.height {
		b.WriteString(treeDimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.rows))))
		b.WriteString("\n")
	}

	st := graph.Summarize(m.session.Snapshot())
	b.WriteString("\n")
	footer := fmt.Sprintf("%d nodes · %d collapsed · %d hidden · %d projected", st.Nodes, st.Collapsed, st.HiddenNodes, st.VisibleProjections)
	if m.session.IsAutoLayoutEnabled() {
		footer += " · auto layout"
	}
	b.WriteString(treeDimStyle.Render(footer))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m exploreModel) renderRow(i int) string {
	r := m.rows[i]
	cursor := "  "
	style := treeNormalStyle
	if i == m.cursor {
		cursor = "▸ "
		style = treeSelectedStyle
	}

	icon := " "
	if r.Compound {
		icon = iconOpen
		if r.Collapsed {
			icon = iconFolded
		}
	}
	line := cursor + strings.Repeat("  ", r.Depth) + icon + " " + style.Render(r.ID)
	if r.Collapsed {
		line += " " + styleCollapsed.Render(fmt.Sprintf("(+%d)", r.Hides))
	}
	return line
}
