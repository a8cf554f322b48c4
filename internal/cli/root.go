package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "schedulerctl" command. Scoring commands
// work on a JSON file of assessments and never touch the database.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedulerctl",
		Short:         "Score and rebalance assessment schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScoreCmd(),
		newOptimizeCmd(),
		newWeeklyCmd(),
		newDailyCmd(),
		newMigrateCmd(),
	)

	return root
}

// horizonFlags are the --file/--from/--to flags shared by the scoring commands.
type horizonFlags struct {
	file string
	from string
	to   string
}

func (f *horizonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "JSON file holding an array of assessments")
	cmd.Flags().StringVar(&f.from, "from", "", "Horizon start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Horizon end (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
}
