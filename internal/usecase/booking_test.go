//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/infra/memstore"
	"park-and-ride/internal/pkg/clock"
	"park-and-ride/internal/pkg/qr"
	"park-and-ride/internal/usecase"
	usecasemock "park-and-ride/tests/mock/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type BookingUseCaseTestSuite struct {
	suite.Suite
	ctx        context.Context
	mockCtrl   *gomock.Controller
	mockEvents *usecasemock.MockEventPublisher
	store      *memstore.ReservationStore
	clock      *clock.MockClock
	tickets    *qr.Issuer
	svc        usecase.BookingUseCase
}

func (s *BookingUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockEvents = usecasemock.NewMockEventPublisher(s.mockCtrl)
	s.mockEvents.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.clock = clock.NewMockClock(baseTime.Add(-24 * time.Hour))
	s.tickets = qr.NewIssuer("ticket-secret")
	s.svc = s.newService(2, 2)
}

func (s *BookingUseCaseTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *BookingUseCaseTestSuite) newService(rows, cols int) usecase.BookingUseCase {
	grid, err := parking.NewGrid(rows, cols)
	s.Require().NoError(err)
	s.store = memstore.NewReservationStore(discardLogger())
	return usecase.NewBookingUseCase(grid, s.store, s.tickets, s.mockEvents, nil, time.Hour, s.clock, discardLogger())
}

func TestBookingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(BookingUseCaseTestSuite))
}

func bookReq(start time.Time, hours int, plate string) usecase.BookRequest {
	return usecase.BookRequest{Start: start, Span: parking.Span{Hours: hours}, Plate: plate, BookedBy: "driver@example.com"}
}

func (s *BookingUseCaseTestSuite) TestRoundTrip() {
	res, err := s.svc.Book(s.ctx, bookReq(baseTime, 2, "ABC123"))
	s.Require().NoError(err)

	s.Equal(parking.Slot{Row: 0, Col: 0}, res.Slot)
	s.True(res.Start.Equal(baseTime))
	s.True(res.End.Equal(baseTime.Add(2 * time.Hour)))
	s.NotEmpty(res.QR)

	occ, err := s.svc.OccupancyAt(s.ctx, baseTime.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, occ)

	err = s.svc.Cancel(s.ctx, usecase.CancelRequest{
		Row: 0, Col: 0, Start: baseTime, End: baseTime.Add(2 * time.Hour), Plate: "ABC123",
	})
	s.Require().NoError(err)

	occ, err = s.svc.OccupancyAt(s.ctx, baseTime.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(0, occ)
}

func (s *BookingUseCaseTestSuite) TestBook_RowMajorAndExhaustion() {
	want := []parking.Slot{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}
	for i, slot := range want {
		res, err := s.svc.Book(s.ctx, bookReq(baseTime, 1, "CAR"+string(rune('A'+i))))
		s.Require().NoError(err)
		s.Equal(slot, res.Slot)
	}

	_, err := s.svc.Book(s.ctx, bookReq(baseTime, 1, "LATE"))
	s.ErrorIs(err, parking.ErrNoSlotAvailable)

	window, err := parking.NewTimeWindow(baseTime, baseTime.Add(time.Hour))
	s.Require().NoError(err)
	_, found, err := s.svc.FindSlot(s.ctx, window)
	s.Require().NoError(err)
	s.False(found)
}

func (s *BookingUseCaseTestSuite) TestBook_AdjacentWindowsShareSlot() {
	first, err := s.svc.Book(s.ctx, bookReq(baseTime, 2, "ONE"))
	s.Require().NoError(err)
	second, err := s.svc.Book(s.ctx, bookReq(baseTime.Add(2*time.Hour), 2, "TWO"))
	s.Require().NoError(err)
	overlapping, err := s.svc.Book(s.ctx, bookReq(baseTime.Add(time.Hour), 2, "THREE"))
	s.Require().NoError(err)

	s.Equal(parking.Slot{Row: 0, Col: 0}, first.Slot)
	s.Equal(parking.Slot{Row: 0, Col: 0}, second.Slot)
	s.Equal(parking.Slot{Row: 0, Col: 1}, overlapping.Slot)
}

func (s *BookingUseCaseTestSuite) TestBook_Validation() {
	cases := []struct {
		name  string
		req   usecase.BookRequest
		errIs error
	}{
		{name: "empty plate", req: bookReq(baseTime, 1, "   "), errIs: parking.ErrInvalidPlate},
		{name: "zero duration", req: bookReq(baseTime, 0, "ABC"), errIs: parking.ErrInvalidWindow},
		{name: "negative duration", req: bookReq(baseTime, -3, "ABC"), errIs: parking.ErrInvalidWindow},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			_, err := s.svc.Book(s.ctx, c.req)
			s.ErrorIs(err, c.errIs)
			_, ok := parking.AsBookingError(err)
			s.True(ok)
		})
	}
}

func (s *BookingUseCaseTestSuite) TestBook_CalendarSpan() {
	start := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	res, err := s.svc.Book(s.ctx, usecase.BookRequest{
		Start: start,
		Span:  parking.Span{Months: 1, Days: 1, Hours: 1},
		Plate: "LONG1",
	})
	s.Require().NoError(err)
	s.True(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(res.End), "got %s", res.End)
}

func (s *BookingUseCaseTestSuite) TestCancel_Mismatch() {
	_, err := s.svc.Book(s.ctx, bookReq(baseTime, 2, "ABC123"))
	s.Require().NoError(err)

	end := baseTime.Add(2 * time.Hour)
	cases := []struct {
		name string
		req  usecase.CancelRequest
	}{
		{name: "wrong plate", req: usecase.CancelRequest{Row: 0, Col: 0, Start: baseTime, End: end, Plate: "XYZ999"}},
		{name: "wrong end", req: usecase.CancelRequest{Row: 0, Col: 0, Start: baseTime, End: end.Add(time.Minute), Plate: "ABC123"}},
		{name: "wrong slot", req: usecase.CancelRequest{Row: 1, Col: 1, Start: baseTime, End: end, Plate: "ABC123"}},
		{name: "outside grid", req: usecase.CancelRequest{Row: 9, Col: 9, Start: baseTime, End: end, Plate: "ABC123"}},
		{name: "inverted window", req: usecase.CancelRequest{Row: 0, Col: 0, Start: end, End: baseTime, Plate: "ABC123"}},
		{name: "blank plate", req: usecase.CancelRequest{Row: 0, Col: 0, Start: baseTime, End: end, Plate: "   "}},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			err := s.svc.Cancel(s.ctx, c.req)
			s.ErrorIs(err, parking.ErrReservationNotFound)
		})
	}

	occ, err := s.svc.OccupancyAt(s.ctx, baseTime)
	s.Require().NoError(err)
	s.Equal(1, occ)
}

func (s *BookingUseCaseTestSuite) TestCancel_NormalizesPlate() {
	_, err := s.svc.Book(s.ctx, bookReq(baseTime, 2, " abc123 "))
	s.Require().NoError(err)

	err = s.svc.Cancel(s.ctx, usecase.CancelRequest{
		Row: 0, Col: 0, Start: baseTime, End: baseTime.Add(2 * time.Hour), Plate: "Abc123",
	})
	s.NoError(err)
}

func (s *BookingUseCaseTestSuite) TestPointQueries() {
	_, err := s.svc.Book(s.ctx, bookReq(baseTime, 2, "ONE"))
	s.Require().NoError(err)
	_, err = s.svc.Book(s.ctx, bookReq(baseTime.Add(time.Hour), 2, "TWO"))
	s.Require().NoError(err)

	cases := []struct {
		at       time.Time
		occupied int
	}{
		{at: baseTime.Add(-time.Minute), occupied: 0},
		{at: baseTime, occupied: 1},
		{at: baseTime.Add(90 * time.Minute), occupied: 2},
		{at: baseTime.Add(2 * time.Hour), occupied: 1},
		{at: baseTime.Add(3 * time.Hour), occupied: 0},
	}
	for _, c := range cases {
		occ, err := s.svc.OccupancyAt(s.ctx, c.at)
		s.Require().NoError(err)
		s.Equal(c.occupied, occ, "occupancy at %s", c.at)

		free, err := s.svc.FreeSlotsAt(s.ctx, c.at)
		s.Require().NoError(err)
		s.Equal(s.svc.Total()-c.occupied, free)
	}

	occupied, err := s.svc.IsSlotOccupied(s.ctx, "r0c1", baseTime.Add(90*time.Minute))
	s.Require().NoError(err)
	s.True(occupied)

	occupied, err = s.svc.IsSlotOccupied(s.ctx, "R0C1", baseTime)
	s.Require().NoError(err)
	s.False(occupied)

	_, err = s.svc.IsSlotOccupied(s.ctx, "R7C7", baseTime)
	s.ErrorIs(err, parking.ErrInvalidSlotLabel)
	_, err = s.svc.IsSlotOccupied(s.ctx, "slot", baseTime)
	s.ErrorIs(err, parking.ErrInvalidSlotLabel)
}

func (s *BookingUseCaseTestSuite) TestFindSlot() {
	window, err := parking.NewTimeWindow(baseTime, baseTime.Add(time.Hour))
	s.Require().NoError(err)

	slot, found, err := s.svc.FindSlot(s.ctx, window)
	s.Require().NoError(err)
	s.Require().True(found)

	res, err := s.svc.Book(s.ctx, bookReq(baseTime, 1, "ABC"))
	s.Require().NoError(err)
	s.Equal(slot, res.Slot)

	_, _, err = s.svc.FindSlot(s.ctx, parking.TimeWindow{Start: baseTime, End: baseTime})
	s.ErrorIs(err, parking.ErrInvalidWindow)
}

func (s *BookingUseCaseTestSuite) TestSlotsAt() {
	_, err := s.svc.Book(s.ctx, bookReq(baseTime, 1, "ABC"))
	s.Require().NoError(err)

	statuses, err := s.svc.SlotsAt(s.ctx, baseTime)
	s.Require().NoError(err)
	s.Require().Len(statuses, 4)
	s.Equal(parking.SlotStatus{Slot: parking.Slot{Row: 0, Col: 0}, Occupied: true}, statuses[0])
	for _, st := range statuses[1:] {
		s.False(st.Occupied)
	}
}

func (s *BookingUseCaseTestSuite) TestVerifyTicket() {
	res, err := s.svc.Book(s.ctx, bookReq(time.Now().UTC().Add(time.Hour), 2, "ABC123"))
	s.Require().NoError(err)

	status, err := s.svc.VerifyTicket(s.ctx, res.QR)
	s.Require().NoError(err)
	s.True(status.Active)
	s.Equal(res.ReservationID, status.Ticket.ReservationID)
	s.Equal("ABC123", status.Ticket.Plate)

	err = s.svc.Cancel(s.ctx, usecase.CancelRequest{
		Row: res.Slot.Row, Col: res.Slot.Col, Start: res.Start, End: res.End, Plate: "ABC123",
	})
	s.Require().NoError(err)

	status, err = s.svc.VerifyTicket(s.ctx, res.QR)
	s.Require().NoError(err)
	s.False(status.Active)

	_, err = s.svc.VerifyTicket(s.ctx, "garbage")
	s.Error(err)
}

func (s *BookingUseCaseTestSuite) TestConcurrentBookingsNeverOverlap() {
	svc := s.newService(5, 5)

	const attempts = 60
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		noSlot   int
		assigned = map[parking.Slot]int{}
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Book(context.Background(), bookReq(baseTime, 3, "CAR"+string(rune('A'+i%26))))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
				assigned[res.Slot]++
			case errors.Is(err, parking.ErrNoSlotAvailable):
				noSlot++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(25, success)
	s.Equal(attempts-25, noSlot)
	for slot, n := range assigned {
		s.Equal(1, n, "slot %s booked twice", slot.Label())
	}
}

func (s *BookingUseCaseTestSuite) TestRandomSequencesKeepInvariants() {
	rng := rand.New(rand.NewSource(42))
	svc := s.newService(2, 3)

	type booked struct {
		res   *usecase.BookResult
		plate string
	}
	var active []booked

	for step := 0; step < 300; step++ {
		if len(active) > 0 && rng.Intn(3) == 0 {
			i := rng.Intn(len(active))
			b := active[i]
			err := svc.Cancel(s.ctx, usecase.CancelRequest{
				Row: b.res.Slot.Row, Col: b.res.Slot.Col, Start: b.res.Start, End: b.res.End, Plate: b.plate,
			})
			s.Require().NoError(err)
			active = append(active[:i], active[i+1:]...)
			continue
		}

		start := baseTime.Add(time.Duration(rng.Intn(48)) * time.Hour)
		plate := "P" + string(rune('A'+rng.Intn(26)))
		req := bookReq(start, 1+rng.Intn(6), plate)

		window, err := req.Span.Window(req.Start)
		s.Require().NoError(err)
		expected, found, err := svc.FindSlot(s.ctx, window)
		s.Require().NoError(err)

		res, err := svc.Book(s.ctx, req)
		if !found {
			s.Require().ErrorIs(err, parking.ErrNoSlotAvailable)
			continue
		}
		s.Require().NoError(err)
		s.Equal(expected, res.Slot)
		active = append(active, booked{res: res, plate: plate})
	}

	grid, err := parking.NewGrid(2, 3)
	s.Require().NoError(err)
	for _, slot := range grid.Slots() {
		list, err := s.store.ListBySlot(s.ctx, slot)
		s.Require().NoError(err)
		for i := range list {
			for j := i + 1; j < len(list); j++ {
				s.False(list[i].Window.Overlaps(list[j].Window), "overlap on %s", slot.Label())
			}
		}
	}

	for h := 0; h < 56; h++ {
		at := baseTime.Add(time.Duration(h) * time.Hour)
		want := map[parking.Slot]bool{}
		for _, b := range active {
			if !at.Before(b.res.Start) && at.Before(b.res.End) {
				want[b.res.Slot] = true
			}
		}
		occ, err := svc.OccupancyAt(s.ctx, at)
		s.Require().NoError(err)
		s.Equal(len(want), occ, "occupancy at %s", at)
	}
}

func TestBook_EventsAndStoreConflicts(t *testing.T) {
	ctx := context.Background()
	grid, err := parking.NewGrid(1, 3)
	require.NoError(t, err)

	t.Run("conflict on insert moves to the next slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := usecasemock.NewMockReservationStore(ctrl)
		events := usecasemock.NewMockEventPublisher(ctrl)
		svc := usecase.NewBookingUseCase(grid, store, qr.NewIssuer("s"), events, nil, time.Hour, clock.NewMockClock(baseTime), discardLogger())

		store.EXPECT().ListOverlapping(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
		gomock.InOrder(
			store.EXPECT().Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *parking.Reservation) error {
					assert.Equal(t, parking.Slot{Row: 0, Col: 0}, r.Slot)
					return infra.RepositoryError{Kind: infra.KindConflict}
				}),
			store.EXPECT().Insert(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *parking.Reservation) error {
					assert.Equal(t, parking.Slot{Row: 0, Col: 1}, r.Slot)
					return nil
				}),
		)
		events.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e usecase.Event) error {
				assert.Equal(t, usecase.EventBookingCreated, e.Type)
				assert.Equal(t, "R0C1", e.Payload["slot"])
				return nil
			}).Times(1)

		res, err := svc.Book(ctx, bookReq(baseTime, 1, "ABC"))
		require.NoError(t, err)
		assert.Equal(t, parking.Slot{Row: 0, Col: 1}, res.Slot)
	})

	t.Run("store failure is not a booking error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := usecasemock.NewMockReservationStore(ctrl)
		svc := usecase.NewBookingUseCase(grid, store, qr.NewIssuer("s"), nil, nil, time.Hour, clock.NewMockClock(baseTime), discardLogger())

		store.EXPECT().ListOverlapping(gomock.Any(), gomock.Any()).
			Return(nil, infra.RepositoryError{Kind: infra.KindDBFailure}).Times(1)

		_, err := svc.Book(ctx, bookReq(baseTime, 1, "ABC"))
		require.Error(t, err)
		_, ok := parking.AsBookingError(err)
		assert.False(t, ok)
	})

	t.Run("publish failure does not fail the booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := usecasemock.NewMockEventPublisher(ctrl)
		svc := usecase.NewBookingUseCase(grid, memstore.NewReservationStore(discardLogger()), qr.NewIssuer("s"), events, nil, time.Hour, clock.NewMockClock(baseTime), discardLogger())

		events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down")).Times(2)

		res, err := svc.Book(ctx, bookReq(baseTime, 1, "ABC"))
		require.NoError(t, err)

		err = svc.Cancel(ctx, usecase.CancelRequest{Row: res.Slot.Row, Col: res.Slot.Col, Start: res.Start, End: res.End, Plate: "ABC"})
		require.NoError(t, err)
	})

	t.Run("cancel publishes booking.cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		events := usecasemock.NewMockEventPublisher(ctrl)
		svc := usecase.NewBookingUseCase(grid, memstore.NewReservationStore(discardLogger()), qr.NewIssuer("s"), events, nil, time.Hour, clock.NewMockClock(baseTime), discardLogger())

		var created usecase.Event
		gomock.InOrder(
			events.EXPECT().Publish(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, e usecase.Event) error { created = e; return nil }),
			events.EXPECT().Publish(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, e usecase.Event) error {
					assert.Equal(t, usecase.EventBookingCancelled, e.Type)
					assert.Equal(t, created.Key, e.Key)
					return nil
				}),
		)

		res, err := svc.Book(ctx, bookReq(baseTime, 1, "ABC"))
		require.NoError(t, err)
		assert.Equal(t, res.ReservationID.String(), created.Key)
		assert.Equal(t, baseTime, created.OccurredAt)

		err = svc.Cancel(ctx, usecase.CancelRequest{Row: 0, Col: 0, Start: res.Start, End: res.End, Plate: "abc"})
		require.NoError(t, err)
	})
}
