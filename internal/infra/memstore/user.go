package memstore

import (
	"context"
	"log/slog"
	"sync"

	"park-and-ride/internal/domain/user"
	"park-and-ride/internal/infra"
)

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*user.User
	logger  *slog.Logger
}

func NewUserRepository(logger *slog.Logger) *UserRepository {
	return &UserRepository{
		byEmail: make(map[string]*user.User),
		logger:  logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := u.Email().Value()
	if _, exists := r.byEmail[key]; exists {
		return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "user email already registered", nil)
	}
	r.byEmail[key] = u
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email.Value()]
	if !ok {
		return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", nil)
	}
	return u, nil
}
