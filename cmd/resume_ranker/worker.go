package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ranker/internal/queue"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Serve ranking requests from a RabbitMQ queue",
	Long: `Consume ranking requests from a durable RabbitMQ queue and publish each
response to the message's reply_to queue with the same correlation_id.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

var (
	workerAMQPURL  string
	workerQueue    string
	workerPrefetch int
)

func init() {
	workerCmd.Flags().StringVar(&workerAMQPURL, "amqp-url", "", "RabbitMQ URL (default from config or AMQP_URL)")
	workerCmd.Flags().StringVar(&workerQueue, "queue", "", "Request queue name (default from config or RANKER_QUEUE)")
	workerCmd.Flags().IntVar(&workerPrefetch, "prefetch", 0, "Messages processed concurrently")

	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg := queue.Config{
		URL:      appCfg.AMQPURL,
		Queue:    appCfg.RequestQueue,
		Prefetch: appCfg.Prefetch,
		Logger:   logger,
	}
	if cmd.Flags().Changed("amqp-url") {
		cfg.URL = workerAMQPURL
	}
	if cmd.Flags().Changed("queue") {
		cfg.Queue = workerQueue
	}
	if cmd.Flags().Changed("prefetch") {
		cfg.Prefetch = workerPrefetch
	}

	w, err := queue.NewWorker(cfg, newRanker(false))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}
