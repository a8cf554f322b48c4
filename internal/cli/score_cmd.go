package cli

import (
	"fmt"

	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var flags horizonFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the nervousness score of a window and its components",
		RunE: func(cmd *cobra.Command, args []string) error {
			assessments, from, to, err := flags.load()
			if err != nil {
				return err
			}
			breakdown, err := scheduler.Evaluate(assessments, from, to)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatBreakdown(breakdown))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
