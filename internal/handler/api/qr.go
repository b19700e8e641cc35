package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/handler/httperr"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/pkg/qr"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

var errInvalidImageSize = errors.New("invalid image size")

type QRHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewQRHandler(bookingUseCase usecase.BookingUseCase) *QRHandler {
	return &QRHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Verify a QR ticket
// @Description Checks the ticket signature and whether its reservation still exists
// @Tags qr
// @Produce json
// @Security BearerAuth
// @Param token query string true "Ticket from the booking response"
// @Success 200 {object} resdto.TicketResponse
// @Failure 400 {object} httperr.Response
// @Router /qr/verify [get]
func (h *QRHandler) Verify(c *gin.Context) {
	status, err := h.bookingUseCase.VerifyTicket(c.Request.Context(), c.Query("token"))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTicketStatus(status))
}

// @Summary Render a QR ticket
// @Tags qr
// @Produce png
// @Security BearerAuth
// @Param token query string true "Ticket from the booking response"
// @Param size query int false "Edge length in pixels (max 1024)"
// @Success 200 {file} binary
// @Failure 400 {object} httperr.Response
// @Router /qr/image [get]
func (h *QRHandler) Image(c *gin.Context) {
	token := c.Query("token")
	if _, err := h.bookingUseCase.VerifyTicket(c.Request.Context(), token); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httperr.AbortWithError(c, http.StatusBadRequest, errInvalidImageSize, "Invalid size", nil)
			return
		}
		size = n
	}

	png, err := qr.PNG(token, size)
	if err != nil {
		abortWithUseCaseError(c, errs.Wrap(err, "failed to render ticket"))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
