package repository

import (
	"context"
	"log/slog"

	"park-and-ride/internal/domain/user"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/infra/db"
	"park-and-ride/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertUserSQL = `
INSERT INTO users (id, email, password_hash, loyalty_points, created_at)
VALUES ($1, $2, $3, $4, $5)`

	findUserByEmailSQL = `
SELECT id, email, password_hash, loyalty_points, created_at
FROM users
WHERE email = $1`
)

type UserRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserRepository(dbtx db.DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{
		db:     dbtx,
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, insertUserSQL,
		pgconv.UUIDToPgtype(u.ID()),
		u.Email().Value(),
		u.PasswordHash(),
		u.LoyaltyPoints(),
		pgconv.TimeToPgtype(u.CreatedAt()),
	)
	if err != nil {
		if pgconv.ErrorCode(err) == pgconv.CodeUniqueViolation {
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "user email already registered", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	var (
		id            pgtype.UUID
		storedEmail   string
		passwordHash  string
		loyaltyPoints int32
		createdAt     pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, findUserByEmailSQL, email.Value()).
		Scan(&id, &storedEmail, &passwordHash, &loyaltyPoints, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find user by email", err)
	}

	stored, err := user.NewEmail(storedEmail)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "stored email is invalid", err)
	}

	return user.Reconstruct(
		pgconv.UUIDFromPgtype(id),
		stored,
		passwordHash,
		int(loyaltyPoints),
		pgconv.TimeFromPgtype(createdAt),
	), nil
}
