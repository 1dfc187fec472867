package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackfold/pkg/graph"
)

// completionCommand creates the completion command. Besides commands and
// flags, the generated scripts complete node IDs for fold's element flags
// by reading the graph file given as the first argument.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stackfold.

Completions cover commands, flags and the node IDs of the graph being
folded: "stackfold fold graph.json --collapse <TAB>" offers the compound
nodes of graph.json, --expand offers the nodes saved as collapsed.

To load completions:

Bash:
  $ source <(stackfold completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ stackfold completion bash > /etc/bash_completion.d/stackfold
  # macOS:
  $ stackfold completion bash > $(brew --prefix)/etc/bash_completion.d/stackfold

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ stackfold completion zsh > "${fpath[1]}/_stackfold"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ stackfold completion fish | source

  # To load completions for each session, execute once:
  $ stackfold completion fish > ~/.config/fish/completions/stackfold.fish

PowerShell:
  PS> stackfold completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> stackfold completion powershell > stackfold.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// Node sets offered by completeNodes.
const (
	completeAll = iota
	completeCompound
	completeCollapsed
)

// completeNodes completes comma-separated node IDs from the graph file in
// args[0]. Before the file is named it falls back to file completion.
func completeNodes(which int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		g, gj, err := graph.Load(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var ids []string
		switch which {
		case completeCollapsed:
			ids = graph.Collapsed(gj)
			slices.Sort(ids)
		default:
			for _, n := range g.Nodes() {
				if which == completeAll || g.IsCompound(n.ID) {
					ids = append(ids, n.ID)
				}
			}
		}

		// Earlier entries of a comma list are kept as a prefix.
		prefix, partial := "", toComplete
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix, partial = toComplete[:i+1], toComplete[i+1:]
		}
		done := strings.Split(prefix, ",")
		var out []string
		for _, id := range ids {
			if strings.HasPrefix(id, partial) && !slices.Contains(done, id) {
				out = append(out, prefix+id)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}
