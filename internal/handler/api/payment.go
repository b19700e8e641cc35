package api

import (
	"net/http"

	reqdto "park-and-ride/internal/handler/dto/request"
	resdto "park-and-ride/internal/handler/dto/response"
	"park-and-ride/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

// @Summary Create a payment intent
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CreateIntentRequest true "Amount in the currency's minor unit"
// @Success 200 {object} resdto.CreateIntentResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /payments/create-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req reqdto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	intent, err := h.paymentUseCase.CreateIntent(c.Request.Context(), req.ToParams())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.CreateIntentResponse{ClientSecret: intent.ClientSecret})
}

// @Summary Confirm a payment
// @Description Succeeds only when the provider reports the intent as succeeded
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.ConfirmPaymentRequest true "Confirm request"
// @Success 200 {object} resdto.StatusResponse
// @Failure 400 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /payments/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req reqdto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	if err := h.paymentUseCase.Confirm(c.Request.Context(), req.ToParams()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.StatusResponse{Status: "ok"})
}
