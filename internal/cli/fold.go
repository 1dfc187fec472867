package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/config"
	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/fold"
	"github.com/matzehuels/stackfold/pkg/layout"
	"github.com/matzehuels/stackfold/pkg/pipeline"
	"github.com/matzehuels/stackfold/pkg/session"
)

// Layout modes accepted by --layout.
const (
	layoutNone    = "none"
	layoutOverlap = "overlap"
	layoutLocal   = "local"
	layoutGlobal  = "global"
)

var layoutModes = []string{layoutNone, layoutOverlap, layoutLocal, layoutGlobal}

// foldOpts holds the fold command's flags.
type foldOpts struct {
	collapse    []string
	expand      []string
	hide        []string
	show        []string
	collapseAll bool
	expandAll   bool
	layout      string
	algorithm   string
	outputOpts
}

// foldCommand creates the fold command for applying collapse/expand
// operations to a graph file.
func (c *CLI) foldCommand() *cobra.Command {
	var opts foldOpts

	cmd := &cobra.Command{
		Use:   "fold [graph.json]",
		Short: "Collapse and expand compound nodes and write the result",
		Long: `Apply collapse, expand, hide and show operations to a compound graph.

Operations run in a fixed order: --expand-all, --collapse-all, --collapse,
--expand, --hide, --show. Collapsing a node hides its descendants and
replaces their edges to the rest of the graph by projection edges on the
collapsed node. After the operations the layout is reconciled according to
--layout and the graph is written in the requested formats.`,
		Example: `  # Collapse two services and write JSON
  stackfold fold graph.json --collapse svc,db -o folded.json

  # Collapse everything, then open one node, and render an SVG
  stackfold fold graph.json --collapse-all --expand api -o view.svg

  # Write several formats at once with a global Graphviz layout
  stackfold fold graph.json --collapse svc --layout global -f json,dot,svg -o out/view`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFold(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.collapse, "collapse", nil, "compound nodes to collapse")
	cmd.Flags().StringSliceVar(&opts.expand, "expand", nil, "collapsed nodes to expand")
	cmd.Flags().StringSliceVar(&opts.hide, "hide", nil, "nodes or edges to hide")
	cmd.Flags().StringSliceVar(&opts.show, "show", nil, "nodes or edges to show")
	cmd.Flags().BoolVar(&opts.collapseAll, "collapse-all", false, "collapse every compound node")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "expand every collapsed node")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "layout after folding: "+strings.Join(layoutModes, ", ")+" (default: local with auto_layout, else none)")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "Graphviz layout algorithm: "+strings.Join(layout.Algorithms, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or base name (default: <input>.folded.<format>)")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: "+strings.Join(pipeline.Formats, ", ")+" (default: from --output, else json)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node metadata in rendered labels")

	_ = cmd.RegisterFlagCompletionFunc("collapse", completeNodes(completeCompound))
	_ = cmd.RegisterFlagCompletionFunc("expand", completeNodes(completeCollapsed))
	_ = cmd.RegisterFlagCompletionFunc("hide", completeNodes(completeAll))
	_ = cmd.RegisterFlagCompletionFunc("show", completeNodes(completeAll))
	_ = cmd.RegisterFlagCompletionFunc("layout", cobra.FixedCompletions(layoutModes, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("algorithm", cobra.FixedCompletions(layout.Algorithms, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runFold(ctx context.Context, input string, opts foldOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.algorithm != "" {
		cfg.Layout.Algorithm = opts.algorithm
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	mode, err := layoutMode(opts.layout, cfg)
	if err != nil {
		return err
	}
	// The CLI drives layouts itself; auto layout would race the writes.
	cfg.AutoLayout = false

	s, err := c.openSession(ctx, input, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	printInfo("Folding %s", input)
	changed := applyFold(s, opts)
	logger.Debugf("Changed %d compound nodes", len(changed))

	if err := runLayout(ctx, s, mode, changed); err != nil {
		return err
	}

	printNewline()
	summarize(s)
	if _, err := writeOutputs(ctx, s, input, opts.outputOpts); err != nil {
		return err
	}

	if len(opts.collapse)+len(opts.expand) == 0 && !opts.collapseAll && !opts.expandAll {
		printNewline()
		printNextStep("Collapse compound nodes", "stackfold fold "+input+" --collapse <id>")
	}
	return nil
}

// layoutMode resolves --layout against the config default.
func layoutMode(flag string, cfg config.Config) (string, error) {
	if flag == "" {
		if cfg.AutoLayout {
			return layoutLocal, nil
		}
		return layoutNone, nil
	}
	for _, m := range layoutModes {
		if m == flag {
			return flag, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown layout mode %q (want one of %s)", flag, strings.Join(layoutModes, ", "))
}

// applyFold runs the requested operations in order and returns the ids of
// the compound nodes whose state changed. Requests that do not apply are
// reported as warnings.
func applyFold(s *session.Session, opts foldOpts) []string {
	var changed []string
	before := make(map[string]bool)
	for _, id := range s.Compounds() {
		before[id] = s.IsCollapsed(id)
	}

	if opts.expandAll && !s.ExpandAll() {
		printWarning("Nothing to expand")
	}
	if opts.collapseAll && !s.CollapseAll() {
		printWarning("Nothing to collapse")
	}
	for _, id := range opts.collapse {
		if !s.Collapse(fold.Node(id)) {
			printWarning("Cannot collapse %s: %s", id, reason(s, id, true))
		}
	}
	for _, id := range opts.expand {
		if !s.Expand(fold.Node(id)) {
			printWarning("Cannot expand %s: %s", id, reason(s, id, false))
		}
	}
	if len(opts.hide) > 0 && !s.Hide(elements(s, opts.hide)...) {
		printWarning("Nothing to hide")
	}
	if len(opts.show) > 0 && !s.Show(elements(s, opts.show)...) {
		printWarning("Nothing to show")
	}

	for _, id := range s.Compounds() {
		if now := s.IsCollapsed(id); now != before[id] {
			changed = append(changed, id)
			if now {
				printSuccess("Collapsed %s", id)
			} else {
				printSuccess("Expanded %s", id)
			}
		}
	}
	return changed
}

// reason explains why a collapse or expand of id was a no-op.
func reason(s *session.Session, id string, collapse bool) string {
	switch {
	case !collapse:
		return "not collapsed"
	case s.IsCollapsed(id):
		return "already collapsed"
	}
	for _, n := range s.Snapshot().Nodes {
		if n.ID == id {
			return "not a compound node"
		}
	}
	return "no such node"
}

// elements classifies ids as nodes or edges of the session's graph.
func elements(s *session.Session, ids []string) []fold.Element {
	nodes := make(map[string]bool)
	for _, n := range s.Snapshot().Nodes {
		nodes[n.ID] = true
	}
	els := make([]fold.Element, 0, len(ids))
	for _, id := range ids {
		if nodes[id] {
			els = append(els, fold.Node(id))
		} else {
			els = append(els, fold.Edge(id))
		}
	}
	return els
}

// runLayout reconciles the layout after folding.
func runLayout(ctx context.Context, s *session.Session, mode string, changed []string) error {
	switch mode {
	case layoutNone:
		return nil
	case layoutOverlap:
		if !s.ResolveOverlaps() {
			printWarning("%d overlapping pairs remain; consider --layout global", len(s.Overlaps()))
		}
		return nil
	}

	if mode == layoutLocal && len(changed) == 0 {
		return nil
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	prog := newProgress(loggerFromContext(ctx))

	var err error
	if mode == layoutGlobal {
		err = <-s.RunLayout(ctx)
	} else {
		for i, id := range changed {
			spinner.SetMessage(fmt.Sprintf("Laying out %s (%d/%d)...", id, i+1, len(changed)))
			if err = <-s.RunLocalLayout(ctx, id); err != nil {
				break
			}
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Layout failed")
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "%s layout", mode)
	}
	spinner.Stop()
	prog.done("Laid out", "nodes", len(s.VisibleGraph().Nodes), "mode", mode)
	return nil
}
