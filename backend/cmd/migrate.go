package cmd

import (
	"fmt"

	"learnhub/backend/config"

	"github.com/spf13/cobra"
)

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tables the configured store needs",
		Long: `Create the Courses, Transactions and UserCourseProgress tables.

DynamoDB tables that already exist are left alone. The SQL store runs
gorm's AutoMigrate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := st.Migrator.Migrate(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}
