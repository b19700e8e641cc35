//go:generate mockgen -source=payment.go -destination=../../tests/mock/usecase/payment.go -package=usecasemock

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"park-and-ride/internal/domain/payment"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/errs"
)

var (
	ErrPaymentNotSucceeded  = errs.ErrPaymentNotSucceeded
	ErrGatewayNotConfigured = errs.ErrGatewayNotConfigured
)

type CreateIntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]any
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string
	BookingID       string
}

type PaymentUseCase interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	Confirm(ctx context.Context, req ConfirmPaymentRequest) error
}

type paymentUseCaseImpl struct {
	gateway PaymentGateway
	events  EventPublisher
	clock   clock.Clock
	logger  *slog.Logger
}

func NewPaymentUseCase(gateway PaymentGateway, events EventPublisher, clock clock.Clock, logger *slog.Logger) PaymentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &paymentUseCaseImpl{
		gateway: gateway,
		events:  events,
		clock:   clock,
		logger:  logger,
	}
}

func (p *paymentUseCaseImpl) CreateIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error) {
	amount, err := payment.NewAmount(req.AmountCents)
	if err != nil {
		return nil, err
	}
	currency, err := payment.NewCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	intent, err := p.gateway.CreateIntent(ctx, amount.Cents(), currency.Code(), stringifyMetadata(req.Metadata))
	if err != nil {
		return nil, p.gatewayError(err, "failed to create payment intent")
	}
	return intent, nil
}

func (p *paymentUseCaseImpl) Confirm(ctx context.Context, req ConfirmPaymentRequest) error {
	intent, err := p.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return p.gatewayError(err, "failed to retrieve payment intent")
	}

	if intent.Status != PaymentStatusSucceeded {
		return ErrPaymentNotSucceeded
	}

	if p.events != nil {
		event := Event{
			Type: EventPaymentConfirmed,
			Key:  req.BookingID,
			Payload: map[string]any{
				"payment_intent_id": intent.ID,
				"booking_id":        req.BookingID,
				"amount_cents":      intent.AmountCents,
				"currency":          intent.Currency,
			},
			OccurredAt: p.clock.Now(),
		}
		if err := p.events.Publish(ctx, event); err != nil {
			p.logger.Warn("failed to publish event",
				slog.String("type", event.Type),
				slog.String("key", event.Key),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

func (p *paymentUseCaseImpl) gatewayError(err error, msg string) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) || errors.Is(err, ErrGatewayNotConfigured) {
		return err
	}
	return errs.Wrap(err, msg)
}

func stringifyMetadata(metadata map[string]any) map[string]string {
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = fmt.Sprint(v)
	}
	return out
}
