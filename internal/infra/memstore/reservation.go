package memstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra"
)

// ReservationStore keeps reservations per slot in memory.
type ReservationStore struct {
	mu     sync.RWMutex
	bySlot map[parking.Slot][]*parking.Reservation
	logger *slog.Logger
}

func NewReservationStore(logger *slog.Logger) *ReservationStore {
	return &ReservationStore{
		bySlot: make(map[parking.Slot][]*parking.Reservation),
		logger: logger,
	}
}

func (s *ReservationStore) Insert(ctx context.Context, res *parking.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bySlot[res.Slot] {
		if existing.Window.Overlaps(res.Window) {
			return infra.WrapRepoErr(s.logger, infra.KindConflict, "slot already reserved for window", nil)
		}
	}

	stored := *res
	s.bySlot[res.Slot] = append(s.bySlot[res.Slot], &stored)
	return nil
}

func (s *ReservationStore) Remove(ctx context.Context, slot parking.Slot, window parking.TimeWindow, plate string) (*parking.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.bySlot[slot]
	for i, r := range list {
		if r.Matches(slot, window, plate) {
			s.bySlot[slot] = append(list[:i:i], list[i+1:]...)
			if len(s.bySlot[slot]) == 0 {
				delete(s.bySlot, slot)
			}
			removed := *r
			return &removed, nil
		}
	}

	return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "reservation not found", nil)
}

func (s *ReservationStore) ListBySlot(ctx context.Context, slot parking.Slot) ([]*parking.Reservation, error) {
	return s.collect(ctx, func(r *parking.Reservation) bool { return r.Slot == slot })
}

func (s *ReservationStore) ListOverlapping(ctx context.Context, window parking.TimeWindow) ([]*parking.Reservation, error) {
	return s.collect(ctx, func(r *parking.Reservation) bool { return r.Window.Overlaps(window) })
}

func (s *ReservationStore) ListActiveAt(ctx context.Context, at time.Time) ([]*parking.Reservation, error) {
	return s.collect(ctx, func(r *parking.Reservation) bool { return r.Window.Covers(at) })
}

// collect returns copies ordered by slot then start.
func (s *ReservationStore) collect(ctx context.Context, keep func(*parking.Reservation) bool) ([]*parking.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*parking.Reservation
	for _, list := range s.bySlot {
		for _, r := range list {
			if keep(r) {
				c := *r
				out = append(out, &c)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Slot.Row != b.Slot.Row {
			return a.Slot.Row < b.Slot.Row
		}
		if a.Slot.Col != b.Slot.Col {
			return a.Slot.Col < b.Slot.Col
		}
		return a.Window.Start.Before(b.Window.Start)
	})
	return out, nil
}
