package memstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"park-and-ride/internal/infra"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/usecase"
)

type idempotencyEntry struct {
	record    usecase.IdempotencyRecord
	expiresAt time.Time
}

// IdempotencyStore expires keys lazily on access.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	clock   clock.Clock
	logger  *slog.Logger
}

func NewIdempotencyStore(clock clock.Clock, logger *slog.Logger) *IdempotencyStore {
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		clock:   clock,
		logger:  logger,
	}
}

func (s *IdempotencyStore) TryInsert(ctx context.Context, key, requestHash string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = idempotencyEntry{
		record: usecase.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			Status:      usecase.IdempotencyStatusProcessing,
		},
		expiresAt: s.clock.Now().Add(ttl),
	}
	return true, nil
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (*usecase.IdempotencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	rec := e.record
	return &rec, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return infra.WrapRepoErr(s.logger, infra.KindNotFound, "idempotency key not found", nil)
	}
	e.record.Status = usecase.IdempotencyStatusCompleted
	e.record.Response = append([]byte(nil), response...)
	e.expiresAt = s.clock.Now().Add(ttl)
	s.entries[key] = e
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// live must be called with mu held.
func (s *IdempotencyStore) live(key string) (idempotencyEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return idempotencyEntry{}, false
	}
	if !s.clock.Now().Before(e.expiresAt) {
		delete(s.entries, key)
		return idempotencyEntry{}, false
	}
	return e, true
}
