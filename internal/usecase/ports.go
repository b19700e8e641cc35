//go:generate mockgen -source=ports.go -destination=../../tests/mock/usecase/ports.go -package=usecasemock

package usecase

import (
	"context"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/domain/user"
)

// ReservationStore is the registry of active reservations.
// Insert reports an overlapping reservation on the same slot as infra.KindConflict,
// Remove reports a missing one as infra.KindNotFound.
type ReservationStore interface {
	Insert(ctx context.Context, res *parking.Reservation) error
	Remove(ctx context.Context, slot parking.Slot, window parking.TimeWindow, plate string) (*parking.Reservation, error)
	ListBySlot(ctx context.Context, slot parking.Slot) ([]*parking.Reservation, error)
	ListOverlapping(ctx context.Context, window parking.TimeWindow) ([]*parking.Reservation, error)
	ListActiveAt(ctx context.Context, at time.Time) ([]*parking.Reservation, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email user.Email) (*user.User, error)
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventPaymentConfirmed = "payment.confirmed"
)

type Event struct {
	Type       string         `json:"type"`
	Key        string         `json:"key"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

const (
	IdempotencyStatusProcessing = "processing"
	IdempotencyStatusCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key         string `json:"key"`
	RequestHash string `json:"request_hash"`
	Status      string `json:"status"`
	Response    []byte `json:"response,omitempty"`
}

// IdempotencyStore remembers keyed requests for a TTL.
// TryInsert returns false when the key already exists.
type IdempotencyStore interface {
	TryInsert(ctx context.Context, key, requestHash string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key string, response []byte, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
}

const PaymentStatusSucceeded = "succeeded"

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// ProviderError is a rejection from the payment provider. Message is safe to show to clients.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "payment provider: " + e.Message
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}
