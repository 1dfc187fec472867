package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/errors"
	"github.com/matzehuels/stackfold/pkg/layout"
)

// maxOverlapRows bounds the overlap table; the rest is summarized.
const maxOverlapRows = 20

type checkOpts struct {
	fix    bool
	output string
}

// checkCommand creates the check command for detecting overlapping nodes.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [graph.json]",
		Short: "Detect overlapping nodes in a laid out graph",
		Long: `Check reports pairs of visible leaf nodes whose boxes overlap.

With --fix the overlaps are pushed apart along the axis of least overlap,
repeating until none remain or layout.max_passes is reached, and the graph is
written back (to --output, or over the input). The command fails when
overlaps remain.`,
		Example: `  # Report overlaps
  stackfold check graph.json

  # Resolve overlaps into a new file
  stackfold check graph.json --fix -o fixed.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.fix, "fix", false, "resolve overlaps and write the result")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for --fix (default: overwrite input)")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, opts checkOpts) error {
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

	overlaps := s.Overlaps()
	if len(overlaps) == 0 {
		printSuccess("No overlapping nodes in %s", input)
		return nil
	}
	printWarning("%d overlapping pairs in %s", len(overlaps), input)
	printOverlaps(overlaps)

	if !opts.fix {
		printNewline()
		printNextStep("Resolve them", "stackfold check "+input+" --fix")
		return errors.New(errors.ErrCodeOverlaps, "%d overlapping pairs", len(overlaps))
	}

	resolved := s.ResolveOverlaps()
	out := opts.output
	if out == "" {
		out = input
	}
	if err := errors.ValidatePath(out); err != nil {
		return err
	}
	if err := s.WriteFile(out); err != nil {
		return err
	}
	if !resolved {
		left := len(s.Overlaps())
		printFile(out)
		return errors.New(errors.ErrCodeOverlaps, "%d overlapping pairs remain after %d passes", left, cfg.Layout.MaxPasses)
	}
	printSuccess("Resolved %d overlapping pairs", len(overlaps))
	printFile(out)
	return nil
}

// printOverlaps renders overlaps as a table.
func printOverlaps(overlaps []layout.Overlap) {
	t := newTable("A", "B", "Overlap X", "Overlap Y")
	for i, ov := range overlaps {
		if i == maxOverlapRows {
			break
		}
		t.Row(ov.A, ov.B, formatFloat(ov.X), formatFloat(ov.Y))
	}
	printTable(t)
	if extra := len(overlaps) - maxOverlapRows; extra > 0 {
		printDetail("... and %d more", extra)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// pct formats part/total as a percentage.
func pct(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(part)/float64(total))
}
