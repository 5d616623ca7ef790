package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"campusboard/api/internal/config"
	"campusboard/api/internal/database"
	"campusboard/api/internal/repository"
	"campusboard/api/internal/repository/memstore"
	"campusboard/api/internal/repository/mongostore"
	"campusboard/api/internal/repository/pgstore"
)

// openBackend connects the configured document store and prepares its
// indexes or schema.
func openBackend(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (repository.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := database.NewMongoClient(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, cfg.Mongo.Database)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		logger.Info().Str("database", cfg.Mongo.Database).Msg("mongo backend ready")
		return store, nil

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info().Msg("postgres backend ready")
		return store, nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory backend; data is lost on restart")
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
