package cli

import (
	"fmt"

	"github.com/SAP-F-2025/assessment-scheduler/internal/config"
	"github.com/SAP-F-2025/assessment-scheduler/pkg"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables from DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			db, err := pkg.InitDatabase(cfg)
			if err != nil {
				return err
			}
			if err := pkg.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}
}
