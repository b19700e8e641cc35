package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"park-and-ride/internal/infra/cache"
	"park-and-ride/internal/infra/events"
	"park-and-ride/internal/infra/memstore"
	"park-and-ride/internal/infra/mongostore"
	"park-and-ride/internal/infra/payment"
	"park-and-ride/internal/infra/repository"
	"park-and-ride/internal/infra/uow"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/config"
	"park-and-ride/internal/usecase"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewReservationStore,
		NewUserRepository,
		NewIdempotencyStore,
		NewEventPublisher,
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(usecase.PaymentGateway)),
		),
	),
)

func NewReservationStore(cfg config.Config, u *uow.PostgresUoW, logger *slog.Logger) (usecase.ReservationStore, error) {
	switch cfg.Store.Reservations {
	case config.DriverMemory:
		return memstore.NewReservationStore(logger), nil
	case config.DriverPostgres:
		return repository.NewReservationRepository(u, logger), nil
	default:
		return nil, fmt.Errorf("unknown RESERVATION_STORE %q", cfg.Store.Reservations)
	}
}

func NewUserRepository(cfg config.Config, pool *pgxpool.Pool, mongoDB *mongo.Database, logger *slog.Logger) (usecase.UserRepository, error) {
	switch cfg.Store.Users {
	case config.DriverMemory:
		return memstore.NewUserRepository(logger), nil
	case config.DriverPostgres:
		return repository.NewUserRepository(pool, logger), nil
	case config.DriverMongo:
		repo := mongostore.NewUserRepository(mongoDB, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown USER_STORE %q", cfg.Store.Users)
	}
}

func NewIdempotencyStore(
	lc fx.Lifecycle,
	cfg config.Config,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
	clk clock.Clock,
	logger *slog.Logger,
) (usecase.IdempotencyStore, error) {
	switch cfg.Store.Idempotency {
	case config.DriverMemory:
		return memstore.NewIdempotencyStore(clk, logger), nil
	case config.DriverRedis:
		return cache.NewIdempotencyStore(redisClient, logger), nil
	case config.DriverPostgres:
		repo := repository.NewIdempotencyRepository(pool, logger)
		startIdempotencyJanitor(lc, repo, logger)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown IDEMPOTENCY_STORE %q", cfg.Store.Idempotency)
	}
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (usecase.EventPublisher, error) {
	switch cfg.Store.Events {
	case config.DriverLog:
		return events.NewLogPublisher(logger), nil
	case config.DriverKafka:
		publisher, err := events.NewKafkaPublisher(cfg.Kafka, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return publisher.Close()
			},
		})
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_DRIVER %q", cfg.Store.Events)
	}
}

func NewPaymentGateway(cfg config.Config, logger *slog.Logger) *payment.StripeGateway {
	return payment.NewStripeGateway(cfg.Stripe, logger)
}

const idempotencySweepInterval = 10 * time.Minute

// startIdempotencyJanitor periodically deletes expired idempotency rows until the app stops.
func startIdempotencyJanitor(lc fx.Lifecycle, repo *repository.IdempotencyRepository, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(idempotencySweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := repo.DeleteExpired(ctx)
						if err != nil {
							continue
						}
						if n > 0 {
							logger.Debug("Deleted expired idempotency keys", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
