package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	id            uuid.UUID
	email         Email
	passwordHash  string
	loyaltyPoints int
	createdAt     time.Time
}

func NewUser(email Email, passwordHash string, now time.Time) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		createdAt:    now,
	}
}

// Reconstruct rebuilds a stored user without re-validating it.
func Reconstruct(id uuid.UUID, email Email, passwordHash string, loyaltyPoints int, createdAt time.Time) *User {
	return &User{
		id:            id,
		email:         email,
		passwordHash:  passwordHash,
		loyaltyPoints: loyaltyPoints,
		createdAt:     createdAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) LoyaltyPoints() int   { return u.loyaltyPoints }
func (u *User) CreatedAt() time.Time { return u.createdAt }
