package usecase

import (
	"context"
	"time"

	"park-and-ride/internal/domain/parking"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedBookingUseCase records a span, a counter and a latency histogram per operation.
type InstrumentedBookingUseCase struct {
	inner  BookingUseCase
	tracer trace.Tracer

	operations        metric.Int64Counter
	operationDuration metric.Float64Histogram
	totalSlots        metric.Int64UpDownCounter
}

func NewInstrumentedBookingUseCase(inner BookingUseCase, tracer trace.Tracer, meter metric.Meter) (*InstrumentedBookingUseCase, error) {
	operations, err := meter.Int64Counter("booking_operations_total",
		metric.WithDescription("Total number of booking service operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("booking_operation_duration_seconds",
		metric.WithDescription("Duration of booking service operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlots, err := meter.Int64UpDownCounter("booking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	totalSlots.Add(context.Background(), int64(inner.Total()))

	return &InstrumentedBookingUseCase{
		inner:             inner,
		tracer:            tracer,
		operations:        operations,
		operationDuration: operationDuration,
		totalSlots:        totalSlots,
	}, nil
}

func (i *InstrumentedBookingUseCase) Total() int {
	return i.inner.Total()
}

func (i *InstrumentedBookingUseCase) Book(ctx context.Context, req BookRequest) (*BookResult, error) {
	ctx, span := i.tracer.Start(ctx, "booking.book",
		trace.WithAttributes(
			attribute.String("vehicle.plate", req.Plate),
			attribute.String("booking.start", req.Start.Format(time.RFC3339)),
			attribute.Int("booking.hours", req.Span.Hours),
			attribute.Int("booking.days", req.Span.Days),
			attribute.Int("booking.months", req.Span.Months),
			attribute.Bool("booking.idempotent", req.IdempotencyKey != ""),
		))
	defer span.End()

	start := time.Now()
	span.AddEvent("finding_available_slot")

	result, err := i.inner.Book(ctx, req)
	if err == nil {
		span.SetAttributes(attribute.String("booking.slot", result.Slot.Label()))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.String("reservation_id", result.ReservationID.String()),
		))
	}

	i.record(ctx, span, "book", start, err)
	return result, err
}

func (i *InstrumentedBookingUseCase) Cancel(ctx context.Context, req CancelRequest) error {
	ctx, span := i.tracer.Start(ctx, "booking.cancel",
		trace.WithAttributes(
			attribute.String("booking.slot", parking.Slot{Row: req.Row, Col: req.Col}.Label()),
			attribute.String("vehicle.plate", req.Plate),
		))
	defer span.End()

	start := time.Now()
	err := i.inner.Cancel(ctx, req)
	i.record(ctx, span, "cancel", start, err)
	return err
}

func (i *InstrumentedBookingUseCase) OccupancyAt(ctx context.Context, at time.Time) (int, error) {
	ctx, span := i.tracer.Start(ctx, "booking.occupancy_at",
		trace.WithAttributes(attribute.String("at", at.Format(time.RFC3339))))
	defer span.End()

	start := time.Now()
	n, err := i.inner.OccupancyAt(ctx, at)
	if err == nil {
		span.SetAttributes(
			attribute.Int("occupied_slots_count", n),
			attribute.Int("total_capacity", i.inner.Total()),
		)
	}
	i.record(ctx, span, "occupancy_at", start, err)
	return n, err
}

func (i *InstrumentedBookingUseCase) FreeSlotsAt(ctx context.Context, at time.Time) (int, error) {
	ctx, span := i.tracer.Start(ctx, "booking.free_slots_at",
		trace.WithAttributes(attribute.String("at", at.Format(time.RFC3339))))
	defer span.End()

	start := time.Now()
	n, err := i.inner.FreeSlotsAt(ctx, at)
	if err == nil {
		span.SetAttributes(attribute.Int("free_slots_count", n))
	}
	i.record(ctx, span, "free_slots_at", start, err)
	return n, err
}

func (i *InstrumentedBookingUseCase) IsSlotOccupied(ctx context.Context, label string, at time.Time) (bool, error) {
	ctx, span := i.tracer.Start(ctx, "booking.is_slot_occupied",
		trace.WithAttributes(
			attribute.String("booking.slot", label),
			attribute.String("at", at.Format(time.RFC3339)),
		))
	defer span.End()

	start := time.Now()
	occupied, err := i.inner.IsSlotOccupied(ctx, label, at)
	if err == nil {
		span.SetAttributes(attribute.Bool("occupied", occupied))
	}
	i.record(ctx, span, "is_slot_occupied", start, err)
	return occupied, err
}

func (i *InstrumentedBookingUseCase) FindSlot(ctx context.Context, window parking.TimeWindow) (parking.Slot, bool, error) {
	ctx, span := i.tracer.Start(ctx, "booking.find_slot",
		trace.WithAttributes(
			attribute.String("booking.start", window.Start.Format(time.RFC3339)),
			attribute.String("booking.end", window.End.Format(time.RFC3339)),
		))
	defer span.End()

	start := time.Now()
	slot, found, err := i.inner.FindSlot(ctx, window)
	if err == nil {
		span.SetAttributes(attribute.Bool("found", found))
		if found {
			span.SetAttributes(attribute.String("booking.slot", slot.Label()))
		}
	}
	i.record(ctx, span, "find_slot", start, err)
	return slot, found, err
}

func (i *InstrumentedBookingUseCase) SlotsAt(ctx context.Context, at time.Time) ([]parking.SlotStatus, error) {
	ctx, span := i.tracer.Start(ctx, "booking.slots_at")
	defer span.End()

	start := time.Now()
	statuses, err := i.inner.SlotsAt(ctx, at)
	i.record(ctx, span, "slots_at", start, err)
	return statuses, err
}

func (i *InstrumentedBookingUseCase) VerifyTicket(ctx context.Context, token string) (*TicketStatus, error) {
	ctx, span := i.tracer.Start(ctx, "booking.verify_ticket")
	defer span.End()

	start := time.Now()
	status, err := i.inner.VerifyTicket(ctx, token)
	if err == nil {
		span.SetAttributes(
			attribute.String("reservation_id", status.Ticket.ReservationID.String()),
			attribute.Bool("active", status.Active),
		)
	}
	i.record(ctx, span, "verify_ticket", start, err)
	return status, err
}

func (i *InstrumentedBookingUseCase) record(ctx context.Context, span trace.Span, operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", operation),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
	}

	i.operations.Add(ctx, 1, metric.WithAttributes(labels...))
	i.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))
}
