package cli

import (
	"fmt"

	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var flags horizonFlags
	var out string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Propose a calmer schedule by moving flexible assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			assessments, from, to, err := flags.load()
			if err != nil {
				return err
			}
			result, err := scheduler.Optimize(assessments, from, to)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Before: %s\n", scoreCell(result.BeforeScore))
			fmt.Fprintf(w, "After:  %s\n\n", scoreCell(result.AfterScore))
			fmt.Fprint(w, formatMoves(result.Moves))

			if out != "" {
				if err := writeAssessments(out, result.RevisedAssessments); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				fmt.Fprintf(w, "\nRevised schedule written to %s\n", out)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write the revised assessments to this JSON file")
	return cmd
}
