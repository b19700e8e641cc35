package repository

import (
	"context"
	"log/slog"
	"time"

	"park-and-ride/internal/domain/parking"
	"park-and-ride/internal/infra"
	"park-and-ride/internal/infra/uow"
	"park-and-ride/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	reservationColumns = `id, slot_row, slot_col, lower(period), upper(period), plate, qr, booked_by, created_at`

	insertReservationSQL = `
INSERT INTO reservations (id, slot_row, slot_col, period, plate, qr, booked_by, created_at)
VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6, $7, $8, $9)`

	deleteReservationSQL = `
DELETE FROM reservations
WHERE slot_row = $1 AND slot_col = $2 AND lower(period) = $3 AND upper(period) = $4 AND plate = $5
RETURNING ` + reservationColumns

	listBySlotSQL = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE slot_row = $1 AND slot_col = $2
ORDER BY lower(period)`

	listOverlappingSQL = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE period && tstzrange($1, $2, '[)')
ORDER BY slot_row, slot_col, lower(period)`

	listActiveAtSQL = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE period @> $1::timestamptz
ORDER BY slot_row, slot_col`
)

// ReservationRepository stores reservations in postgres. The reservations_no_overlap
// exclusion constraint rejects overlapping periods on one slot across processes.
type ReservationRepository struct {
	uow    *uow.PostgresUoW
	logger *slog.Logger
}

func NewReservationRepository(u *uow.PostgresUoW, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{
		uow:    u,
		logger: logger,
	}
}

func (r *ReservationRepository) Insert(ctx context.Context, res *parking.Reservation) error {
	err := r.uow.Within(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertReservationSQL,
			pgconv.UUIDToPgtype(res.ID),
			res.Slot.Row,
			res.Slot.Col,
			pgconv.TimeToPgtype(res.Window.Start),
			pgconv.TimeToPgtype(res.Window.End),
			res.Plate,
			res.QR,
			res.BookedBy,
			pgconv.TimeToPgtype(res.CreatedAt),
		)
		return err
	})
	if err != nil {
		switch pgconv.ErrorCode(err) {
		case pgconv.CodeExclusionViolation:
			return infra.WrapRepoErr(r.logger, infra.KindConflict, "slot already reserved for window", err)
		case pgconv.CodeUniqueViolation:
			return infra.WrapRepoErr(r.logger, infra.KindDuplicateKey, "reservation id already exists", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Remove(ctx context.Context, slot parking.Slot, window parking.TimeWindow, plate string) (*parking.Reservation, error) {
	var removed *parking.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(ctx, deleteReservationSQL,
			slot.Row,
			slot.Col,
			pgconv.TimeToPgtype(window.Start),
			pgconv.TimeToPgtype(window.End),
			plate,
		)
		res, err := scanReservation(row)
		if err != nil {
			return err
		}
		removed = res
		return nil
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to delete reservation", err)
	}
	return removed, nil
}

func (r *ReservationRepository) ListBySlot(ctx context.Context, slot parking.Slot) ([]*parking.Reservation, error) {
	return r.list(ctx, "failed to list reservations by slot", listBySlotSQL, slot.Row, slot.Col)
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, window parking.TimeWindow) ([]*parking.Reservation, error) {
	return r.list(ctx, "failed to list overlapping reservations", listOverlappingSQL,
		pgconv.TimeToPgtype(window.Start), pgconv.TimeToPgtype(window.End))
}

func (r *ReservationRepository) ListActiveAt(ctx context.Context, at time.Time) ([]*parking.Reservation, error) {
	return r.list(ctx, "failed to list active reservations", listActiveAtSQL, pgconv.TimeToPgtype(at))
}

func (r *ReservationRepository) list(ctx context.Context, failMsg, sql string, args ...any) ([]*parking.Reservation, error) {
	var out []*parking.Reservation
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			res, err := scanReservation(rows)
			if err != nil {
				return err
			}
			out = append(out, res)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, failMsg, err)
	}
	return out, nil
}

func scanReservation(row pgx.Row) (*parking.Reservation, error) {
	var (
		id        pgtype.UUID
		slotRow   int32
		slotCol   int32
		start     pgtype.Timestamptz
		end       pgtype.Timestamptz
		plate     string
		qr        string
		bookedBy  string
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &slotRow, &slotCol, &start, &end, &plate, &qr, &bookedBy, &createdAt); err != nil {
		return nil, err
	}

	return &parking.Reservation{
		ID:   pgconv.UUIDFromPgtype(id),
		Slot: parking.Slot{Row: int(slotRow), Col: int(slotCol)},
		Window: parking.TimeWindow{
			Start: pgconv.TimeFromPgtype(start),
			End:   pgconv.TimeFromPgtype(end),
		},
		Plate:     plate,
		QR:        qr,
		BookedBy:  bookedBy,
		CreatedAt: pgconv.TimeFromPgtype(createdAt),
	}, nil
}
