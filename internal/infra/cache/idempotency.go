package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"park-and-ride/internal/infra"
	"park-and-ride/internal/usecase"

	"github.com/go-redis/redis/v8"
)

const idempotencyPrefix = "idempotency:"

// IdempotencyStore keeps one JSON record per key and lets redis expire it.
type IdempotencyStore struct {
	client redis.Cmdable
	logger *slog.Logger
}

func NewIdempotencyStore(client redis.Cmdable, logger *slog.Logger) *IdempotencyStore {
	return &IdempotencyStore{client: client, logger: logger}
}

func (s *IdempotencyStore) TryInsert(ctx context.Context, key, requestHash string, ttl time.Duration) (bool, error) {
	value, err := json.Marshal(usecase.IdempotencyRecord{
		Key:         key,
		RequestHash: requestHash,
		Status:      usecase.IdempotencyStatusProcessing,
	})
	if err != nil {
		return false, err
	}

	ok, err := s.client.SetNX(ctx, idempotencyPrefix+key, value, ttl).Result()
	if err != nil {
		return false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to reserve idempotency key", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*usecase.IdempotencyRecord, error) {
	raw, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read idempotency key", err)
	}

	var rec usecase.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "corrupt idempotency record", err)
	}
	return &rec, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	rec, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	rec.Status = usecase.IdempotencyStatusCompleted
	rec.Response = response

	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, idempotencyPrefix+key, value, ttl).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to complete idempotency key", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyPrefix+key).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to release idempotency key", err)
	}
	return nil
}
