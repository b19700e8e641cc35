package request

import (
	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/usecase"
)

type BookRequest struct {
	Start  *Timestamp `json:"start" binding:"required"`
	Hours  int        `json:"hours"`
	Days   int        `json:"days"`
	Months int        `json:"months"`
	Plate  string     `json:"plate" binding:"required,plate"`
}

func (r *BookRequest) ToParams(bookedBy, idempotencyKey string) usecase.BookRequest {
	return usecase.BookRequest{
		Start:          r.Start.Time,
		Span:           parking.Span{Hours: r.Hours, Days: r.Days, Months: r.Months},
		Plate:          r.Plate,
		BookedBy:       bookedBy,
		IdempotencyKey: idempotencyKey,
	}
}

type CancelRequest struct {
	Row   *int       `json:"row" binding:"required"`
	Col   *int       `json:"col" binding:"required"`
	Start *Timestamp `json:"start" binding:"required"`
	End   *Timestamp `json:"end" binding:"required"`
	Plate string     `json:"plate" binding:"required,plate"`
}

func (r *CancelRequest) ToParams() usecase.CancelRequest {
	return usecase.CancelRequest{
		Row:   *r.Row,
		Col:   *r.Col,
		Start: r.Start.Time,
		End:   r.End.Time,
		Plate: r.Plate,
	}
}
