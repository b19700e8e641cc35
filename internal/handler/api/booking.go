package api

import (
	"net/http"
	"strings"

	"park-and-ride/internal/domain/parking"
	reqdto "park-and-ride/internal/handler/dto/request"
	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/handler/httperr"
	"park-and-ride/internal/handler/middleware"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxIdempotencyKeyLength = 255

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
	}
}

// @Summary Book a slot
// @Description Reserve the first free slot (row-major) for the window starting at start
// @Tags booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the original booking when retried"
// @Param request body reqdto.BookRequest true "Booking request"
// @Success 200 {object} resdto.BookResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /book [post]
func (h *BookingHandler) Book(c *gin.Context) {
	email, ok := middleware.GetUserEmail(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoUserInContext, "Not authenticated", nil)
		return
	}

	idempotencyKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(idempotencyKey) > maxIdempotencyKeyLength {
		httperr.AbortWithError(c, http.StatusBadRequest, errInvalidIdempotencyKey, "Idempotency-Key is too long", nil)
		return
	}

	var req reqdto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	result, err := h.bookingUseCase.Book(c.Request.Context(), req.ToParams(email, idempotencyKey))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookResult(result))
}

// @Summary Cancel a reservation
// @Description Remove the reservation exactly matching slot, window and plate
// @Tags booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CancelRequest true "Cancel request"
// @Success 200 {object} resdto.MessageResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req reqdto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	if err := h.bookingUseCase.Cancel(c.Request.Context(), req.ToParams()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.MessageResponse{Message: "Cancelled successfully"})
}

// @Summary Occupancy at an instant
// @Tags booking
// @Produce json
// @Security BearerAuth
// @Param at query string true "Instant (RFC 3339 or naive UTC)"
// @Success 200 {object} resdto.OccupancyResponse
// @Failure 400 {object} httperr.Response
// @Router /occupancy [get]
func (h *BookingHandler) Occupancy(c *gin.Context) {
	at, ok := queryTime(c, "at")
	if !ok {
		return
	}

	occupied, err := h.bookingUseCase.OccupancyAt(c.Request.Context(), at)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.OccupancyResponse{Occupied: occupied, Total: h.bookingUseCase.Total()})
}

// @Summary Whether a slot is occupied
// @Tags booking
// @Produce json
// @Security BearerAuth
// @Param slot query string true "Slot label, e.g. R0C1"
// @Param at query string true "Instant (RFC 3339 or naive UTC)"
// @Success 200 {object} resdto.SlotOccupiedResponse
// @Failure 400 {object} httperr.Response
// @Router /slot-occupied [get]
func (h *BookingHandler) SlotOccupied(c *gin.Context) {
	at, ok := queryTime(c, "at")
	if !ok {
		return
	}

	occupied, err := h.bookingUseCase.IsSlotOccupied(c.Request.Context(), c.Query("slot"), at)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.SlotOccupiedResponse{Occupied: occupied})
}

// @Summary Find a free slot
// @Description Returns the slot a booking for the window would get, without reserving it
// @Tags booking
// @Produce json
// @Security BearerAuth
// @Param start query string true "Window start"
// @Param end query string true "Window end"
// @Success 200 {object} resdto.FindSlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /find-slot [post]
func (h *BookingHandler) FindSlot(c *gin.Context) {
	start, ok := queryTime(c, "start")
	if !ok {
		return
	}
	end, ok := queryTime(c, "end")
	if !ok {
		return
	}

	window, err := parking.NewTimeWindow(start, end)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	slot, found, err := h.bookingUseCase.FindSlot(c.Request.Context(), window)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	if !found {
		httperr.AbortWithError(c, http.StatusNotFound, parking.ErrNoSlotAvailable, "No available slot", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FindSlotResponse{Slot: resdto.FromSlot(slot)})
}

// @Summary Free slots at an instant
// @Tags booking
// @Produce json
// @Security BearerAuth
// @Param at query string true "Instant (RFC 3339 or naive UTC)"
// @Success 200 {object} resdto.FreeSlotsResponse
// @Failure 400 {object} httperr.Response
// @Router /free-slots [get]
func (h *BookingHandler) FreeSlots(c *gin.Context) {
	at, ok := queryTime(c, "at")
	if !ok {
		return
	}

	free, err := h.bookingUseCase.FreeSlotsAt(c.Request.Context(), at)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FreeSlotsResponse{Free: free, Total: h.bookingUseCase.Total()})
}
