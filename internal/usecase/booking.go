//go:generate mockgen -source=booking.go -destination=../../tests/mock/usecase/booking.go -package=usecasemock

package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/errs"
	"park-and-ride/internal/pkg/qr"

	"github.com/google/uuid"
)

type BookRequest struct {
	Start          time.Time
	Span           parking.Span
	Plate          string
	BookedBy       string
	IdempotencyKey string
}

type BookResult struct {
	ReservationID uuid.UUID    `json:"reservation_id"`
	Slot          parking.Slot `json:"slot"`
	Start         time.Time    `json:"start"`
	End           time.Time    `json:"end"`
	QR            string       `json:"qr"`
}

type CancelRequest struct {
	Row   int
	Col   int
	Start time.Time
	End   time.Time
	Plate string
}

type TicketStatus struct {
	Ticket qr.Ticket
	Active bool
}

type BookingUseCase interface {
	Book(ctx context.Context, req BookRequest) (*BookResult, error)
	Cancel(ctx context.Context, req CancelRequest) error
	OccupancyAt(ctx context.Context, at time.Time) (int, error)
	FreeSlotsAt(ctx context.Context, at time.Time) (int, error)
	IsSlotOccupied(ctx context.Context, label string, at time.Time) (bool, error)
	FindSlot(ctx context.Context, window parking.TimeWindow) (parking.Slot, bool, error)
	SlotsAt(ctx context.Context, at time.Time) ([]parking.SlotStatus, error)
	VerifyTicket(ctx context.Context, token string) (*TicketStatus, error)
	Total() int
}

type bookingUseCaseImpl struct {
	// book and cancel hold mu exclusively so the scan and insert are atomic in-process.
	mu             sync.RWMutex
	grid           parking.Grid
	store          ReservationStore
	tickets        *qr.Issuer
	events         EventPublisher
	idempotency    IdempotencyStore
	idempotencyTTL time.Duration
	clock          clock.Clock
	logger         *slog.Logger
}

func NewBookingUseCase(
	grid parking.Grid,
	store ReservationStore,
	tickets *qr.Issuer,
	events EventPublisher,
	idempotency IdempotencyStore,
	idempotencyTTL time.Duration,
	clock clock.Clock,
	logger *slog.Logger,
) BookingUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &bookingUseCaseImpl{
		grid:           grid,
		store:          store,
		tickets:        tickets,
		events:         events,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		clock:          clock,
		logger:         logger,
	}
}

func (b *bookingUseCaseImpl) Total() int {
	return b.grid.Total()
}

func (b *bookingUseCaseImpl) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	plate, err := parking.NormalizePlate(req.Plate)
	if err != nil {
		return nil, err
	}
	window, err := req.Span.Window(req.Start)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey == "" || b.idempotency == nil {
		return b.book(ctx, window, plate, req.BookedBy)
	}
	return b.bookIdempotent(ctx, req, window, plate)
}

func (b *bookingUseCaseImpl) book(ctx context.Context, window parking.TimeWindow, plate, bookedBy string) (*BookResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	busy, err := b.busySlots(ctx, window)
	if err != nil {
		return nil, err
	}

	for _, slot := range b.grid.Slots() {
		if busy[slot] {
			continue
		}

		res, err := b.newReservation(slot, window, plate, bookedBy)
		if err != nil {
			return nil, err
		}

		if err := b.store.Insert(ctx, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				// taken by another process sharing the store
				busy[slot] = true
				continue
			}
			return nil, errs.Mark(errs.Wrap(err, "failed to insert reservation"), errs.ErrDatabaseOperationFailed)
		}

		b.publish(ctx, Event{
			Type: EventBookingCreated,
			Key:  res.ID.String(),
			Payload: map[string]any{
				"reservation_id": res.ID.String(),
				"slot":           slot.Label(),
				"start":          window.Start,
				"end":            window.End,
				"plate":          plate,
				"booked_by":      bookedBy,
			},
		})

		return &BookResult{
			ReservationID: res.ID,
			Slot:          slot,
			Start:         window.Start,
			End:           window.End,
			QR:            res.QR,
		}, nil
	}

	return nil, parking.ErrNoSlotAvailable
}

func (b *bookingUseCaseImpl) newReservation(slot parking.Slot, window parking.TimeWindow, plate, bookedBy string) (*parking.Reservation, error) {
	res, err := parking.NewReservation(uuid.New(), slot, window, plate, bookedBy, b.clock.Now())
	if err != nil {
		return nil, err
	}

	token, err := b.tickets.Issue(qr.Ticket{
		ReservationID: res.ID,
		Row:           slot.Row,
		Col:           slot.Col,
		Start:         window.Start,
		End:           window.End,
		Plate:         plate,
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to issue qr ticket")
	}
	res.QR = token

	return res, nil
}

func (b *bookingUseCaseImpl) Cancel(ctx context.Context, req CancelRequest) error {
	slot := parking.Slot{Row: req.Row, Col: req.Col}
	if !b.grid.Contains(slot) {
		return parking.ErrReservationNotFound
	}
	plate, err := parking.NormalizePlate(req.Plate)
	if err != nil {
		return parking.ErrReservationNotFound
	}
	window, err := parking.NewTimeWindow(req.Start, req.End)
	if err != nil {
		return parking.ErrReservationNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.store.Remove(ctx, slot, window, plate)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return parking.ErrReservationNotFound
		}
		return errs.Mark(errs.Wrap(err, "failed to remove reservation"), errs.ErrDatabaseOperationFailed)
	}

	b.publish(ctx, Event{
		Type: EventBookingCancelled,
		Key:  res.ID.String(),
		Payload: map[string]any{
			"reservation_id": res.ID.String(),
			"slot":           slot.Label(),
			"start":          window.Start,
			"end":            window.End,
			"plate":          plate,
		},
	})

	return nil
}

func (b *bookingUseCaseImpl) OccupancyAt(ctx context.Context, at time.Time) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	occupied, err := b.occupiedSlots(ctx, at)
	if err != nil {
		return 0, err
	}
	return len(occupied), nil
}

func (b *bookingUseCaseImpl) FreeSlotsAt(ctx context.Context, at time.Time) (int, error) {
	occupied, err := b.OccupancyAt(ctx, at)
	if err != nil {
		return 0, err
	}
	return b.grid.Total() - occupied, nil
}

func (b *bookingUseCaseImpl) IsSlotOccupied(ctx context.Context, label string, at time.Time) (bool, error) {
	slot, err := b.grid.ParseLabel(label)
	if err != nil {
		return false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	reservations, err := b.store.ListBySlot(ctx, slot)
	if err != nil {
		return false, errs.Mark(errs.Wrap(err, "failed to list slot reservations"), errs.ErrDatabaseOperationFailed)
	}
	for _, r := range reservations {
		if r.Window.Covers(at) {
			return true, nil
		}
	}
	return false, nil
}

func (b *bookingUseCaseImpl) FindSlot(ctx context.Context, window parking.TimeWindow) (parking.Slot, bool, error) {
	if !window.End.After(window.Start) {
		return parking.Slot{}, false, parking.ErrInvalidWindow
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	busy, err := b.busySlots(ctx, window)
	if err != nil {
		return parking.Slot{}, false, err
	}
	for _, slot := range b.grid.Slots() {
		if !busy[slot] {
			return slot, true, nil
		}
	}
	return parking.Slot{}, false, nil
}

func (b *bookingUseCaseImpl) SlotsAt(ctx context.Context, at time.Time) ([]parking.SlotStatus, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	occupied, err := b.occupiedSlots(ctx, at)
	if err != nil {
		return nil, err
	}

	slots := b.grid.Slots()
	statuses := make([]parking.SlotStatus, 0, len(slots))
	for _, s := range slots {
		statuses = append(statuses, parking.SlotStatus{Slot: s, Occupied: occupied[s]})
	}
	return statuses, nil
}

func (b *bookingUseCaseImpl) VerifyTicket(ctx context.Context, token string) (*TicketStatus, error) {
	ticket, err := b.tickets.Parse(token)
	if err != nil {
		return nil, errs.ErrInvalidTicket
	}

	slot := parking.Slot{Row: ticket.Row, Col: ticket.Col}
	if !b.grid.Contains(slot) {
		return nil, errs.ErrInvalidTicket
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	reservations, err := b.store.ListBySlot(ctx, slot)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list slot reservations"), errs.ErrDatabaseOperationFailed)
	}

	status := &TicketStatus{Ticket: ticket}
	for _, r := range reservations {
		if r.ID == ticket.ReservationID {
			status.Active = true
			break
		}
	}
	return status, nil
}

func (b *bookingUseCaseImpl) busySlots(ctx context.Context, window parking.TimeWindow) (map[parking.Slot]bool, error) {
	overlapping, err := b.store.ListOverlapping(ctx, window)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list overlapping reservations"), errs.ErrDatabaseOperationFailed)
	}

	busy := make(map[parking.Slot]bool, len(overlapping))
	for _, r := range overlapping {
		busy[r.Slot] = true
	}
	return busy, nil
}

func (b *bookingUseCaseImpl) occupiedSlots(ctx context.Context, at time.Time) (map[parking.Slot]bool, error) {
	active, err := b.store.ListActiveAt(ctx, at)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to list active reservations"), errs.ErrDatabaseOperationFailed)
	}

	occupied := make(map[parking.Slot]bool, len(active))
	for _, r := range active {
		occupied[r.Slot] = true
	}
	return occupied, nil
}

func (b *bookingUseCaseImpl) publish(ctx context.Context, event Event) {
	if b.events == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = b.clock.Now()
	}
	if err := b.events.Publish(ctx, event); err != nil {
		b.logger.Warn("failed to publish event",
			slog.String("type", event.Type),
			slog.String("key", event.Key),
			slog.String("error", err.Error()))
	}
}
