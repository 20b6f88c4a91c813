package cmd

import (
	"learnhub/backend/config"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the learnhub command tree. Configuration is read
// from the environment (and .env) once, before any subcommand runs.
func NewRootCommand() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "learnhub",
		Short:         "Course marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	cmd.AddCommand(newServeCommand(cfg))
	cmd.AddCommand(newMigrateCommand(cfg))
	cmd.AddCommand(newTokenCommand(cfg))

	return cmd
}
