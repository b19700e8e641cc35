package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/pkg/errs"
)

// canonicalBooking is hashed to detect a key reused with a different request.
type canonicalBooking struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Plate  string `json:"plate"`
	Hours  int    `json:"hours"`
	Days   int    `json:"days"`
	Months int    `json:"months"`
}

func (b *bookingUseCaseImpl) bookIdempotent(ctx context.Context, req BookRequest, window parking.TimeWindow, plate string) (*BookResult, error) {
	key := scopedIdempotencyKey(req.BookedBy, req.IdempotencyKey)
	hash := calculateRequestHash(canonicalBooking{
		Start:  window.Start.Format(time.RFC3339Nano),
		End:    window.End.Format(time.RFC3339Nano),
		Plate:  plate,
		Hours:  req.Span.Hours,
		Days:   req.Span.Days,
		Months: req.Span.Months,
	})

	inserted, err := b.idempotency.TryInsert(ctx, key, hash, b.idempotencyTTL)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to reserve idempotency key"), errs.ErrDatabaseOperationFailed)
	}
	if !inserted {
		return b.replay(ctx, key, hash)
	}

	result, err := b.book(ctx, window, plate, req.BookedBy)
	if err != nil {
		if releaseErr := b.idempotency.Release(ctx, key); releaseErr != nil {
			b.logger.Warn("failed to release idempotency key",
				slog.String("key", key),
				slog.String("error", releaseErr.Error()))
		}
		return nil, err
	}

	body, err := json.Marshal(result)
	if err != nil {
		// the reservation is committed, so answer with it and free the key
		b.logger.Error("failed to encode booking result for replay",
			slog.String("key", key),
			slog.String("reservation_id", result.ReservationID.String()),
			slog.String("error", err.Error()))
		if releaseErr := b.idempotency.Release(ctx, key); releaseErr != nil {
			b.logger.Warn("failed to release idempotency key",
				slog.String("key", key),
				slog.String("error", releaseErr.Error()))
		}
		return result, nil
	}
	if err := b.idempotency.Complete(ctx, key, body, b.idempotencyTTL); err != nil {
		// the booking itself succeeded, a retry will see the key as in progress until the TTL passes
		b.logger.Error("failed to complete idempotency key",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return result, nil
}

func (b *bookingUseCaseImpl) replay(ctx context.Context, key, hash string) (*BookResult, error) {
	existing, err := b.idempotency.Get(ctx, key)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// released or expired between TryInsert and Get
			return nil, errs.ErrIdempotencyInProgress
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to read idempotency key"), errs.ErrDatabaseOperationFailed)
	}

	if existing.RequestHash != hash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case IdempotencyStatusCompleted:
		var result BookResult
		if err := json.Unmarshal(existing.Response, &result); err != nil {
			return nil, errs.Wrap(err, "failed to decode stored booking result")
		}
		return &result, nil
	case IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.New("invalid idempotency key status: " + existing.Status)
	}
}

func scopedIdempotencyKey(owner, key string) string {
	return "booking:" + owner + ":" + key
}

func calculateRequestHash(v any) string {
	data, _ := json.Marshal(v)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
