package cli

import (
	"github.com/spf13/cobra"

	"splice.dev/splice/internal/cli/helpers"
	"splice.dev/splice/internal/output"
	"splice.dev/splice/internal/runtime"
)

// newHistoryCmd creates the history command
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <script>",
		Short: "Apply an edit script and list its undo history",
		Long: `Apply an edit script and list its undo history.

Entries that are applied are marked with ◉; entries that were undone and can
still be redone are marked with ◯.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				runner, err := playScript(ctx, args[0])
				if err != nil {
					return err
				}
				r := output.NewRenderer(ctx.Writer, runner.Names())
				ctx.Splog.Page(r.RenderHistory(ctx.History.Entries(), ctx.History.Index()))
				return nil
			})
		},
	}

	return cmd
}
