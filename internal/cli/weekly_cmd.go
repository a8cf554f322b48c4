package cli

import (
	"fmt"

	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/spf13/cobra"
)

func newWeeklyCmd() *cobra.Command {
	var flags horizonFlags

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Print the nervousness of every week in the horizon",
		RunE: func(cmd *cobra.Command, args []string) error {
			assessments, from, to, err := flags.load()
			if err != nil {
				return err
			}
			weeks, err := scheduler.WeeklyBreakdown(assessments, from, to)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, formatWindows(weeks))
			fmt.Fprintf(w, "\nOverall: %s\n", scoreCell(scheduler.Aggregate(weeks)))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newDailyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the nervousness of every day that has assessments",
		RunE: func(cmd *cobra.Command, args []string) error {
			assessments, err := readAssessments(file)
			if err != nil {
				return err
			}
			days, err := scheduler.DailyScores(assessments)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatWindows(days))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file holding an array of assessments")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
