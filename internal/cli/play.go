package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"splice.dev/splice/internal/cli/helpers"
	"splice.dev/splice/internal/output"
	"splice.dev/splice/internal/runtime"
)

// newPlayCmd creates the play command
func newPlayCmd() *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "play <script>",
		Short: "Apply an edit script and print the resulting timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				runner, err := playScript(ctx, args[0])
				if err != nil {
					return err
				}

				r := output.NewRenderer(ctx.Writer, runner.Names())
				ctx.Splog.Page(r.RenderState(ctx.Timeline.Snapshot()))
				if stats {
					summary, err := requestStats(ctx)
					if err != nil {
						return err
					}
					ctx.Splog.Page(summary)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print request and rollback counts")

	return cmd
}

// requestStats summarises the counters gathered while the script ran
func requestStats(ctx *runtime.Context) (string, error) {
	families, err := ctx.Registry.Gather()
	if err != nil {
		return "", fmt.Errorf("failed to gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		if mf.GetMetric() == nil || mf.GetMetric()[0].GetCounter() == nil {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue()))
		}
	}
	slices.Sort(lines)
	return strings.Join(lines, "\n") + "\n", nil
}
