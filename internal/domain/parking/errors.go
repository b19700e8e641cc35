package parking

import "errors"

// BookingError is a request the lot cannot satisfy. Its message is safe to show to clients.
type BookingError struct {
	msg string
}

func (e *BookingError) Error() string {
	return e.msg
}

var (
	ErrNoSlotAvailable     = &BookingError{msg: "no slot available"}
	ErrReservationNotFound = &BookingError{msg: "reservation not found"}
	ErrInvalidSlotLabel    = &BookingError{msg: "invalid slot label"}
	ErrInvalidWindow       = &BookingError{msg: "invalid booking window"}
	ErrInvalidPlate        = &BookingError{msg: "invalid plate"}
)

func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
