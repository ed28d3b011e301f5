package cli

import (
	"github.com/spf13/cobra"

	"splice.dev/splice/internal/cli/helpers"
	"splice.dev/splice/internal/runtime"
	"splice.dev/splice/internal/tui"
)

// newBrowseCmd creates the browse command
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <script>",
		Short: "Apply an edit script and step through its undo history interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				runner, err := playScript(ctx, args[0])
				if err != nil {
					return err
				}
				return tui.RunBrowseTUI(ctx.Timeline, ctx.History, runner.Names())
			})
		},
	}

	return cmd
}
