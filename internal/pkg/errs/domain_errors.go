package errs

import "errors"

// Sentinel errors shared by the usecase layer.
var (
	// Auth errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")

	// Idempotency errors
	ErrIdempotencyKeyReused  = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress = errors.New("idempotency in progress")

	// Payment errors
	ErrPaymentNotSucceeded  = errors.New("payment not succeeded")
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")

	// Ticket errors
	ErrInvalidTicket = errors.New("invalid ticket")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
