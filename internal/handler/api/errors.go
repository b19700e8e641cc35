package api

import (
	"errors"
	"net/http"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/domain/payment"
	"park-and-ride/internal/domain/user"
	reqdto "park-and-ride/internal/handler/dto/request"
	"park-and-ride/internal/handler/httperr"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

var (
	errMissingQueryParam     = errors.New("missing query parameter")
	errInvalidIdempotencyKey = errors.New("invalid idempotency key")
)

// abortWithUseCaseError maps errors shared by several handlers. Anything unknown is a 500.
func abortWithUseCaseError(c *gin.Context, err error) {
	if be, ok := parking.AsBookingError(err); ok {
		httperr.AbortWithError(c, http.StatusBadRequest, err, be.Error(), nil)
		return
	}

	var providerErr *usecase.ProviderError
	switch {
	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key reused with a different request", nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request with this idempotency key is being processed", nil)
	case errs.Is(err, errs.ErrInvalidTicket):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid ticket", nil)
	case errs.Is(err, user.ErrInvalidEmail), errs.Is(err, user.ErrPasswordTooWeak),
		errs.Is(err, payment.ErrInvalidAmount), errs.Is(err, payment.ErrInvalidCurrency):
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
	case errors.As(err, &providerErr):
		httperr.AbortWithError(c, http.StatusBadRequest, err, providerErr.Message, nil)
	case errs.Is(err, errs.ErrGatewayNotConfigured):
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Payment gateway not configured", nil)
	case errs.Is(err, errs.ErrPaymentNotSucceeded):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Payment not succeeded", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortWithBindError(c *gin.Context, err error) {
	if be, ok := parking.AsBookingError(err); ok {
		httperr.AbortWithError(c, http.StatusBadRequest, err, be.Error(), nil)
		return
	}

	var detail any
	if fields := reqdto.TranslateBindError(err); fields != nil {
		detail = fields
	}
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", detail)
}

// queryTime reads a required timestamp query parameter, aborting with 400 when it is missing or malformed.
func queryTime(c *gin.Context, name string) (time.Time, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errMissingQueryParam, "Missing query parameter: "+name, nil)
		return time.Time{}, false
	}

	t, err := parking.ParseTimestamp(raw)
	if err != nil {
		abortWithUseCaseError(c, err)
		return time.Time{}, false
	}
	return t, true
}
