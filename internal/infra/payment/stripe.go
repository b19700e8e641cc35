package payment

import (
	"context"
	"errors"
	"log/slog"

	"park-and-ride/internal/pkg/config"
	"park-and-ride/internal/usecase"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type intentsAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway creates and reads PaymentIntents. Without a secret key every call
// fails with usecase.ErrGatewayNotConfigured.
type StripeGateway struct {
	intents intentsAPI
	logger  *slog.Logger
}

func NewStripeGateway(cfg config.StripeConfig, logger *slog.Logger) *StripeGateway {
	if cfg.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set, payment endpoints will return 503")
		return &StripeGateway{logger: logger}
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &StripeGateway{intents: sc.PaymentIntents, logger: logger}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*usecase.PaymentIntent, error) {
	if g.intents == nil {
		return nil, usecase.ErrGatewayNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return nil, g.providerError("create payment intent", err)
	}
	return toPaymentIntent(intent), nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*usecase.PaymentIntent, error) {
	if g.intents == nil {
		return nil, usecase.ErrGatewayNotConfigured
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.intents.Get(id, params)
	if err != nil {
		return nil, g.providerError("retrieve payment intent", err)
	}
	return toPaymentIntent(intent), nil
}

func (g *StripeGateway) providerError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		g.logger.Warn("stripe rejected request",
			slog.String("op", op),
			slog.String("type", string(stripeErr.Type)),
			slog.String("code", string(stripeErr.Code)),
			slog.Int("http_status", stripeErr.HTTPStatusCode))
		msg := stripeErr.Msg
		if msg == "" {
			msg = stripeErr.Error()
		}
		return &usecase.ProviderError{Message: msg}
	}
	return err
}

func toPaymentIntent(pi *stripe.PaymentIntent) *usecase.PaymentIntent {
	return &usecase.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Currency:     string(pi.Currency),
	}
}
