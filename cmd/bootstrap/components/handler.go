package components

import (
	"park-and-ride/internal/handler"
	"park-and-ride/internal/handler/api"
	reqdto "park-and-ride/internal/handler/dto/request"
	"park-and-ride/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewLotHandler,
		api.NewQRHandler,
		api.NewPaymentHandler,
		NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(
		reqdto.RegisterValidators,
		handler.NewRouter,
	),
)

func NewHandlers(
	auth *api.AuthHandler,
	booking *api.BookingHandler,
	lot *api.LotHandler,
	qr *api.QRHandler,
	payment *api.PaymentHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Booking: booking,
		Lot:     lot,
		QR:      qr,
		Payment: payment,
	}
}
