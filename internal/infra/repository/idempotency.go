package repository

import (
	"context"
	"log/slog"
	"time"

	"park-and-ride/internal/infra"
	"park-and-ride/internal/infra/db"
	"park-and-ride/internal/pkg/pgconv"
	"park-and-ride/internal/usecase"
)

const (
	// An expired row is taken over in place, so a live key is the only conflict.
	tryInsertIdempotencySQL = `
INSERT INTO idempotency_keys (key, request_hash, status, response, expires_at)
VALUES ($1, $2, $3, NULL, now() + make_interval(secs => $4))
ON CONFLICT (key) DO UPDATE
SET request_hash = EXCLUDED.request_hash,
    status       = EXCLUDED.status,
    response     = NULL,
    expires_at   = EXCLUDED.expires_at
WHERE idempotency_keys.expires_at <= now()`

	getIdempotencySQL = `
SELECT key, request_hash, status, response
FROM idempotency_keys
WHERE key = $1 AND expires_at > now()`

	completeIdempotencySQL = `
UPDATE idempotency_keys
SET status = $2, response = $3, expires_at = now() + make_interval(secs => $4)
WHERE key = $1 AND expires_at > now()`

	releaseIdempotencySQL = `DELETE FROM idempotency_keys WHERE key = $1`

	deleteExpiredIdempotencySQL = `DELETE FROM idempotency_keys WHERE expires_at <= now()`
)

// IdempotencyRepository keeps idempotency records in postgres, using the database clock for expiry.
type IdempotencyRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewIdempotencyRepository(dbtx db.DBTX, logger *slog.Logger) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, requestHash string, ttl time.Duration) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencySQL,
		key, requestHash, usecase.IdempotencyStatusProcessing, ttl.Seconds())
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*usecase.IdempotencyRecord, error) {
	var rec usecase.IdempotencyRecord
	err := r.db.QueryRow(ctx, getIdempotencySQL, key).
		Scan(&rec.Key, &rec.RequestHash, &rec.Status, &rec.Response)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get idempotency key", err)
	}
	return &rec, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	tag, err := r.db.Exec(ctx, completeIdempotencySQL,
		key, usecase.IdempotencyStatusCompleted, response, ttl.Seconds())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update idempotency key status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, releaseIdempotencySQL, key); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to release idempotency key", err)
	}
	return nil
}

// DeleteExpired removes rows no request can reclaim anymore.
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencySQL)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
