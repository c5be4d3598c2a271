package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint a bearer token for the REST API",
	Long: `Sign a bearer token for subject with the configured JWT secret. The token
is accepted by serve when it runs with the same secret.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	jwtCfg, err := appCfg.JWT()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return fmt.Errorf("JWT secret is not configured (set JWT_SECRET or jwt_secret)")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
