package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pidlayout/pkg/core/instrument"
	"github.com/matzehuels/pidlayout/pkg/core/placement"
	"github.com/matzehuels/pidlayout/pkg/core/routing"
	"github.com/matzehuels/pidlayout/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pidlayout.

Bash:
  $ source <(pidlayout completion bash)

Zsh:
  $ pidlayout completion zsh > "${fpath[1]}/_pidlayout"

Fish:
  $ pidlayout completion fish > ~/.config/fish/completions/pidlayout.fish

PowerShell:
  PS> pidlayout completion powershell | Out-String | Invoke-Expression

Strategy flags such as --placement and --routing complete to their valid
values.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// flagValues lists the completions of each enumerated pipeline flag.
func flagValues() map[string][]string {
	return map[string][]string{
		"placement":   placement.Strategies(),
		"routing":     routing.Strategies(),
		"instruments": instrument.Layouts(),
		"direction": {
			string(placement.Auto), string(placement.LeftToRight), string(placement.TopToBottom),
		},
		"annotations": append([]string{pipeline.AnnotateNone}, pipeline.AnnotationCategories...),
		"format":      {"json", "msgpack", "dot", "svg"},
	}
}

// registerFlagCompletions attaches value completion to every enumerated flag
// cmd defines.
func registerFlagCompletions(cmd *cobra.Command) {
	for name, values := range flagValues() {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
	}
}
