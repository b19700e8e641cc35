package api

import (
	"net/http"
	"time"

	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/config"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

type LotHandler struct {
	bookingUseCase usecase.BookingUseCase
	lot            config.LotConfig
	clock          clock.Clock
}

func NewLotHandler(bookingUseCase usecase.BookingUseCase, cfg config.Config, clock clock.Clock) *LotHandler {
	return &LotHandler{
		bookingUseCase: bookingUseCase,
		lot:            cfg.Lot,
		clock:          clock,
	}
}

// @Summary List lots
// @Description Lot with the occupancy of every slot, now or at the given instant
// @Tags lots
// @Produce json
// @Security BearerAuth
// @Param at query string false "Instant (RFC 3339 or naive UTC), defaults to now"
// @Success 200 {array} resdto.LotResponse
// @Failure 400 {object} httperr.Response
// @Router /lots [get]
func (h *LotHandler) List(c *gin.Context) {
	var at time.Time
	if _, present := c.GetQuery("at"); present {
		var ok bool
		if at, ok = queryTime(c, "at"); !ok {
			return
		}
	} else {
		at = h.clock.Now()
	}

	statuses, err := h.bookingUseCase.SlotsAt(c.Request.Context(), at)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, []resdto.LotResponse{
		resdto.FromSlotStatuses(h.lot.ID, h.lot.Name, statuses),
	})
}
