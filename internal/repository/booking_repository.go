package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/padelclub/court-auction/internal/model"
)

// BookingRepo provides data access to the bookings table. All timestamps are
// stored and compared in UTC. The overlap query is the store-level half of
// the double-booking invariant: services re-issue it immediately before
// insert because the entity-level check cannot see concurrent writers.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying pool for transaction scoping by services.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, court_id, user_id, start_time, end_time, status, price_cents, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	var status string
	if err := row.Scan(&b.ID, &b.CourtID, &b.UserID, &b.StartTime, &b.EndTime, &status, &b.PriceCents, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// Create inserts a new booking row.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (id, court_id, user_id, start_time, end_time, status, price_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.CourtID, b.UserID, b.StartTime.UTC(), b.EndTime.UTC(), string(b.Status), b.PriceCents)
	return err
}

// GetByID loads one booking; a missing row yields model.ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// FindOverlapping returns all active (PENDING or CONFIRMED) bookings on the
// court whose window intersects [start, end) under half-open semantics:
// start_time < end AND end_time > start. Touching windows do not match.
func (r *BookingRepo) FindOverlapping(ctx context.Context, courtID string, start, end time.Time) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE court_id = ?
	             AND status IN ('PENDING','CONFIRMED')
	             AND start_time < ?
	             AND end_time > ?
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, courtID, end.UTC(), start.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus persists a status transition decided by the aggregate.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking row.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}
