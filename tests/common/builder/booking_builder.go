//go:build unit || e2e

package builder

import (
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/usecase"

	"github.com/google/uuid"
)

const naiveLayout = "2006-01-02T15:04:05"

type BookingBuilder struct {
	Start  time.Time
	Hours  int
	Days   int
	Months int
	Plate  string
	Slot   parking.Slot
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		Start: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Hours: 2,
		Plate: "ABC123",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) End() time.Time {
	end, err := parking.Span{Hours: b.Hours, Days: b.Days, Months: b.Months}.EndFrom(b.Start)
	if err != nil {
		return b.Start
	}
	return end
}

// BuildBody returns the JSON body of POST /book, with start as a naive UTC timestamp.
func (b *BookingBuilder) BuildBody() map[string]any {
	return map[string]any{
		"start":  b.Start.UTC().Format(naiveLayout),
		"hours":  b.Hours,
		"days":   b.Days,
		"months": b.Months,
		"plate":  b.Plate,
	}
}

// BuildCancelBody returns the JSON body of POST /cancel matching this booking.
func (b *BookingBuilder) BuildCancelBody() map[string]any {
	return map[string]any{
		"row":   b.Slot.Row,
		"col":   b.Slot.Col,
		"start": b.Start.UTC().Format(time.RFC3339),
		"end":   b.End().UTC().Format(time.RFC3339),
		"plate": b.Plate,
	}
}

func (b *BookingBuilder) BuildResult() *usecase.BookResult {
	return &usecase.BookResult{
		ReservationID: uuid.New(),
		Slot:          b.Slot,
		Start:         b.Start,
		End:           b.End(),
		QR:            "qr-token",
	}
}

func (b *BookingBuilder) WithPlate(plate string) *BookingBuilder {
	b.Plate = plate
	return b
}
