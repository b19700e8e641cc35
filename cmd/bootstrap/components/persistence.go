package components

import (
	"context"
	"log/slog"

	"park-and-ride/internal/infra/cache"
	"park-and-ride/internal/infra/mongostore"
	"park-and-ride/internal/infra/uow"
	"park-and-ride/internal/pkg/config"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

// PersistenceModule opens the external connections. Each provider returns nil
// when no store is configured to use that backend.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewUnitOfWork,
		NewMongoDatabase,
		NewRedisClient,
	),
)

func NewUnitOfWork(pool *pgxpool.Pool, logger *slog.Logger) *uow.PostgresUoW {
	if pool == nil {
		return nil
	}
	return uow.NewPostgresUoW(pool, logger)
}

func NewMongoDatabase(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*mongo.Database, error) {
	if cfg.Store.Users != config.DriverMongo {
		return nil, nil
	}

	client, err := mongostore.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to mongodb", "database", cfg.Mongo.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client.Database(cfg.Mongo.DBName), nil
}

func NewRedisClient(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	if cfg.Store.Idempotency != config.DriverRedis {
		return nil, nil
	}

	client, err := cache.Connect(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to redis", "addr", cfg.Redis.Addr)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}
