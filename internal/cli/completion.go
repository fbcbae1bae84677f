package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mermaid/pkg/diagram"
	"github.com/matzehuels/mermaid/pkg/pipeline"
	"github.com/matzehuels/mermaid/pkg/render"
)

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mermaid. Besides commands and flags,
they complete diagram kinds, output formats, themes, modes and engines.

Bash:        source <(mermaid completion bash)
Zsh:         mermaid completion zsh > "${fpath[1]}/_mermaid"
Fish:        mermaid completion fish > ~/.config/fish/completions/mermaid.fish
PowerShell:  mermaid completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, root := cmd.OutOrStdout(), cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// registerCompletions adds value completions for the persistent flags
// that take a fixed set of values.
func registerCompletions(root *cobra.Command) {
	themes := make([]string, len(diagram.Themes))
	for i, t := range diagram.Themes {
		themes[i] = string(t)
	}
	complete(root, "format", string(render.FormatSVG), string(render.FormatPNG), string(render.FormatMermaid))
	complete(root, "mode", modeLight, modeDark)
	complete(root, "theme", themes...)
	complete(root, "engine", pipeline.EngineInk, pipeline.EngineGraphviz)
}

// complete offers values for a flag and suppresses file completion.
func complete(cmd *cobra.Command, flag string, values ...string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}
