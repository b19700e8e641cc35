package parking

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Reservation struct {
	ID        uuid.UUID
	Slot      Slot
	Window    TimeWindow
	Plate     string
	QR        string
	BookedBy  string
	CreatedAt time.Time
}

func NewReservation(id uuid.UUID, slot Slot, window TimeWindow, plate, bookedBy string, now time.Time) (*Reservation, error) {
	normalized, err := NormalizePlate(plate)
	if err != nil {
		return nil, err
	}
	if !window.End.After(window.Start) {
		return nil, ErrInvalidWindow
	}

	return &Reservation{
		ID:        id,
		Slot:      slot,
		Window:    window,
		Plate:     normalized,
		BookedBy:  bookedBy,
		CreatedAt: now,
	}, nil
}

// Matches reports whether r is exactly the reservation identified by slot, window and plate.
func (r *Reservation) Matches(slot Slot, window TimeWindow, plate string) bool {
	return r.Slot == slot && r.Window.Equal(window) && r.Plate == plate
}

func NormalizePlate(plate string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(plate))
	if p == "" {
		return "", ErrInvalidPlate
	}
	return p, nil
}

// SlotStatus is one cell of the lot view at an instant.
type SlotStatus struct {
	Slot     Slot
	Occupied bool
}
