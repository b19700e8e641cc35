//go:build unit || e2e

package builder

import (
	"time"

	"park-and-ride/internal/domain/user"
)

type UserBuilder struct {
	Email         string
	PasswordHash  string
	LoyaltyPoints int
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	created := user.NewUser(email, u.PasswordHash, time.Now())
	if u.LoyaltyPoints == 0 {
		return created, nil
	}
	return user.Reconstruct(created.ID(), email, u.PasswordHash, u.LoyaltyPoints, created.CreatedAt()), nil
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) WithLoyaltyPoints(points int) *UserBuilder {
	u.LoyaltyPoints = points
	return u
}
