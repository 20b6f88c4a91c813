package cmd

import (
	"fmt"

	"learnhub/backend/config"
	"learnhub/backend/utils"

	"github.com/spf13/cobra"
)

// newTokenCommand signs a development token with JWT_SECRET. Deployments
// that verify identity-provider tokens with JWT_PUBLIC_KEY will reject it.
func newTokenCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed development token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := utils.GenerateJWTToken(args[0], cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
