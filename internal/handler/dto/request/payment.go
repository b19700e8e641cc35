package request

import "park-and-ride/internal/usecase"

type CreateIntentRequest struct {
	AmountCents int64          `json:"amount_cents" binding:"required"`
	Currency    string         `json:"currency"`
	Metadata    map[string]any `json:"metadata"`
}

func (r *CreateIntentRequest) ToParams() usecase.CreateIntentRequest {
	return usecase.CreateIntentRequest{
		AmountCents: r.AmountCents,
		Currency:    r.Currency,
		Metadata:    r.Metadata,
	}
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	BookingID       string `json:"booking_id" binding:"required"`
}

func (r *ConfirmPaymentRequest) ToParams() usecase.ConfirmPaymentRequest {
	return usecase.ConfirmPaymentRequest{
		PaymentIntentID: r.PaymentIntentID,
		BookingID:       r.BookingID,
	}
}
