// Command auditor follows the activity stream written by the API and records
// each administrative change in its log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"campusboard/api/internal/activity"
	"campusboard/api/internal/cache"
	"campusboard/api/internal/config"
	"campusboard/api/internal/log"
	"campusboard/api/internal/queue"
)

func main() {
	cfg, err := config.LoadAuditor()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment).With().Str("component", "auditor").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	consumerName := cfg.Activity.Consumer
	if consumerName == "" {
		consumerName, _ = os.Hostname()
	}

	consumer := queue.NewConsumer(
		client,
		cfg.Activity.Stream,
		cfg.Activity.Group,
		consumerName,
		cfg.Activity.ClaimInterval,
		logger,
		activity.NewAuditLog(logger),
	)
	if err := consumer.EnsureGroup(ctx); err != nil {
		logger.Fatal().Err(err).Msg("create consumer group failed")
	}

	logger.Info().Str("consumer", consumerName).Msg("auditor started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("auditor stopped")
}
