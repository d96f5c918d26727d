package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-account/pkg/config"
	"github.com/tendant/simple-account/pkg/mail"
)

// NewWorkerCmd creates the worker subcommand.
func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Deliver queued mail",
		Long:  `Consume mail tasks from the Redis queue and deliver them over SMTP.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWorker(ctx, cfg)
		},
	}
}

func runWorker(ctx context.Context, cfg config.Config) error {
	if !cfg.Redis.Enabled() {
		return errors.New("worker requires REDIS_ADDR")
	}

	sender, err := newSender(cfg.Email)
	if err != nil {
		return err
	}

	slog.Info("Starting mail worker", "redis", cfg.Redis.Addr, "concurrency", cfg.Email.QueueConcurrency)
	worker := mail.NewWorker(redisConnOpt(cfg.Redis), sender, cfg.Email.QueueConcurrency, nil)
	return worker.Run(ctx)
}
