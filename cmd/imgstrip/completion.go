package imgstrip

import (
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var flagNoDesc bool

// completionGenerators maps each supported shell to its script writer.
// includeDesc toggles per-candidate descriptions where the shell supports them.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer, includeDesc bool) error{
	"bash": func(root *cobra.Command, w io.Writer, includeDesc bool) error {
		return root.GenBashCompletionV2(w, includeDesc)
	},
	"zsh": func(root *cobra.Command, w io.Writer, includeDesc bool) error {
		if includeDesc {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, includeDesc bool) error {
		return root.GenFishCompletion(w, includeDesc)
	},
	"powershell": func(root *cobra.Command, w io.Writer, includeDesc bool) error {
		if includeDesc {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionGenerators))
	for name := range completionGenerators {
		shells = append(shells, name)
	}
	sort.Strings(shells)
	return shells
}

var completionCmd = &cobra.Command{
	Use:       "completion <shell>",
	Short:     "Print a shell completion script for imgstrip",
	ValidArgs: completionShells(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Example: `  source <(imgstrip completion bash)
  imgstrip completion zsh --no-descriptions > "${fpath[1]}/_imgstrip"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout(), !flagNoDesc)
	},
}

func init() {
	completionCmd.Flags().BoolVar(&flagNoDesc, "no-descriptions", false, "omit candidate descriptions from the script")
	rootCmd.AddCommand(completionCmd)
}
