//go:generate mockgen -source=auth.go -destination=../../tests/mock/usecase/auth.go -package=usecasemock

package usecase

import (
	"context"
	"errors"

	"park-and-ride/internal/domain/user"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/pkg/jwt"
)

var (
	ErrUserAlreadyExists  = errs.ErrUserAlreadyExists
	ErrInvalidCredentials = errs.ErrInvalidCredentials
	ErrUserNotFound       = errs.ErrUserNotFound
	ErrTokenGeneration    = errors.New("token generation failed")
)

type AuthUseCase interface {
	Register(ctx context.Context, credentials user.Credentials) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetCurrentUser(ctx context.Context, email string) (*user.User, error)
}

type authUseCaseImpl struct {
	userRepo   UserRepository
	hasher     PasswordHasher
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthUseCase(userRepo UserRepository, hasher PasswordHasher, jwtService *jwt.Service, clock clock.Clock) AuthUseCase {
	return &authUseCaseImpl{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		clock:      clock,
	}
}

func (a *authUseCaseImpl) Register(ctx context.Context, credentials user.Credentials) (*user.User, error) {
	hash, err := a.hasher.Hash(credentials.Password().Value())
	if err != nil {
		return nil, errs.Wrap(err, "failed to hash password")
	}

	u := user.NewUser(credentials.Email(), hash, a.clock.Now())
	if err := a.userRepo.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to create user"), errs.ErrDatabaseOperationFailed)
	}

	return u, nil
}

// Login never reveals whether the email or the password was wrong.
func (a *authUseCaseImpl) Login(ctx context.Context, emailStr, password string) (string, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	u, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", errs.Mark(errs.Wrap(err, "failed to find user"), errs.ErrDatabaseOperationFailed)
	}

	if err := a.hasher.Compare(u.PasswordHash(), password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := a.jwtService.GenerateToken(u.Email().Value())
	if err != nil {
		return "", ErrTokenGeneration
	}

	return token, nil
}

func (a *authUseCaseImpl) GetCurrentUser(ctx context.Context, emailStr string) (*user.User, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Mark(errs.Wrap(err, "failed to find user"), errs.ErrDatabaseOperationFailed)
	}

	return u, nil
}
