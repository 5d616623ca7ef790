package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"campusboard/api/internal/activity"
	"campusboard/api/internal/cache"
	"campusboard/api/internal/config"
	"campusboard/api/internal/handlers"
	"campusboard/api/internal/jobs"
	"campusboard/api/internal/log"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/security"
	"campusboard/api/internal/server"
	"campusboard/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("failed to open storage backend")
	}

	mediaHost, err := storage.NewMediaHost(cfg.Media)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init media host")
	}
	if err := mediaHost.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Str("bucket", cfg.Media.Bucket).Msg("ensure bucket failed")
	}

	deps := handlers.Dependencies{
		Config:   cfg,
		Log:      logger,
		Backend:  backend,
		Tokens:   security.NewTokenCodec(cfg.Security.TokenSecret, cfg.Security.TokenTTL),
		Media:    mediaHost,
		Activity: activity.Nop{},
	}

	var redisClient *redis.Client
	var trimmer jobs.StreamTrimmer
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect redis")
		}
		publisher := activity.NewRedisPublisher(redisClient, cfg.Activity.Stream, cfg.Activity.MaxLen, logger)
		deps.Activity = publisher
		deps.Cache = cache.NewChecker(redisClient)
		trimmer = publisher
	}

	httpServer := server.NewHTTPServer(cfg, logger, handlers.NewHandlerSet(deps))

	scheduler := jobs.NewScheduler(trimmer, cfg.Activity.TrimSchedule, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, backend, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, backend repository.Backend, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduled job still running at shutdown")
	}

	if err := backend.Close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("storage close error")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
