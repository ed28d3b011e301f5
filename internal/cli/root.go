// Package cli wires the splice commands.
package cli

import (
	"github.com/spf13/cobra"

	"splice.dev/splice/internal/runtime"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var settings runtime.Settings

	rootCmd := &cobra.Command{
		Use:   "splice",
		Short: "Splice replays multitrack timeline edit sessions",
		Long: `Splice replays multitrack timeline edit sessions.

A session is a YAML script of timeline requests: adding tracks, inserting,
moving, resizing, grouping and deleting clips and compositions, and undoing
or redoing them. Splice applies the script and shows the resulting timeline
or its undo history.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			settings.Writer = cmd.OutOrStdout()
			cmd.SetContext(runtime.WithSettings(cmd.Context(), settings))
		},
	}

	rootCmd.PersistentFlags().StringVar(&settings.ConfigPath, "config", "", "Config file (default .splice.yaml)")
	rootCmd.PersistentFlags().BoolVar(&settings.Debug, "debug", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVarP(&settings.Quiet, "quiet", "q", false, "Suppress progress output")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
