package components

import (
	"log/slog"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra/telemetry"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/config"
	"park-and-ride/internal/pkg/password"
	"park-and-ride/internal/pkg/qr"
	"park-and-ride/internal/usecase"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseServicesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewGrid,
	NewTicketIssuer,
	fx.Annotate(
		NewPasswordHasher,
		fx.As(new(usecase.PasswordHasher)),
	),
)

var usecaseServicesModule = fx.Module("usecase/services",
	fx.Provide(
		NewBookingUseCase,
		usecase.NewAuthUseCase,
		usecase.NewPaymentUseCase,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewGrid(cfg config.Config) (parking.Grid, error) {
	return parking.NewGrid(cfg.Lot.Rows, cfg.Lot.Cols)
}

// NewTicketIssuer signs tickets with the JWT secret.
func NewTicketIssuer(cfg config.Config) *qr.Issuer {
	return qr.NewIssuer(cfg.JWT.Secret)
}

func NewPasswordHasher() *password.Hasher {
	return password.NewHasher(password.DefaultCost)
}

type bookingDeps struct {
	fx.In

	Config      config.Config
	Grid        parking.Grid
	Store       usecase.ReservationStore
	Tickets     *qr.Issuer
	Events      usecase.EventPublisher
	Idempotency usecase.IdempotencyStore
	Clock       clock.Clock
	Logger      *slog.Logger
	Telemetry   *telemetry.Provider
}

func NewBookingUseCase(deps bookingDeps) (usecase.BookingUseCase, error) {
	inner := usecase.NewBookingUseCase(
		deps.Grid,
		deps.Store,
		deps.Tickets,
		deps.Events,
		deps.Idempotency,
		deps.Config.Store.IdempotencyTTL,
		deps.Clock,
		deps.Logger,
	)
	instrumented, err := usecase.NewInstrumentedBookingUseCase(inner, deps.Telemetry.Tracer(), deps.Telemetry.Meter())
	if err != nil {
		return nil, err
	}
	return instrumented, nil
}
