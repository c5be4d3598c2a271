package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/server"
	"github.com/jonathan/resume-ranker/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing POST /rank, POST /rank/batch and GET /health.
Bearer-token auth is enabled when JWT_SECRET (or jwt_secret) is set. Rate
limits are read from the RATE_LIMIT_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := appCfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	jwtCfg, err := appCfg.JWT()
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:         port,
		MaxBodyBytes: appCfg.MaxBodyBytes,
		Workers:      appCfg.Workers,
		JWT:          jwtCfg,
		RateLimit:    ratelimit.LoadConfig(),
		Logger:       logger,
	}, newRanker(false))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}
