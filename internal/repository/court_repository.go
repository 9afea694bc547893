package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelclub/court-auction/internal/model"
)

// CourtRepo provides data access to the courts table.
type CourtRepo struct {
	db *sql.DB
}

// NewCourtRepo returns a CourtRepo bound to the given database.
func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, club_id, name, type, indoor, base_price_cents, slot_duration_min, active, created_at, updated_at`

func scanCourt(row interface{ Scan(...any) error }) (*model.Court, error) {
	var c model.Court
	var courtType sql.NullString
	if err := row.Scan(&c.ID, &c.ClubID, &c.Name, &courtType, &c.Indoor, &c.BasePriceCents, &c.SlotDurationMin, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if courtType.Valid {
		c.Type = courtType.String
	}
	return &c, nil
}

// Create inserts a court row.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	const q = `INSERT INTO courts (id, club_id, name, type, indoor, base_price_cents, slot_duration_min, active)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var courtType any
	if c.Type != "" {
		courtType = c.Type
	}
	_, err := r.db.ExecContext(ctx, q, c.ID, c.ClubID, c.Name, courtType, c.Indoor, c.BasePriceCents, c.SlotDurationMin, c.Active)
	return err
}

// GetByID loads one court; a missing row yields model.ErrCourtNotFound.
func (r *CourtRepo) GetByID(ctx context.Context, id string) (*model.Court, error) {
	const q = `SELECT ` + courtColumns + ` FROM courts WHERE id = ?`
	c, err := scanCourt(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCourtNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListByClub returns the club's courts ordered by name.
func (r *CourtRepo) ListByClub(ctx context.Context, clubID string) ([]*model.Court, error) {
	const q = `SELECT ` + courtColumns + ` FROM courts WHERE club_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Court, 0)
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable columns of a court after verifying that it
// belongs to the given club. A mismatched club yields ErrForbidden.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court, clubID string) error {
	const checkQ = `SELECT club_id FROM courts WHERE id = ?`
	var actual string
	if err := r.db.QueryRowContext(ctx, checkQ, c.ID).Scan(&actual); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrCourtNotFound
		}
		return err
	}
	if actual != clubID {
		return ErrForbidden
	}
	const q = `UPDATE courts SET name = ?, type = ?, indoor = ?, base_price_cents = ?, slot_duration_min = ?, active = ? WHERE id = ?`
	var courtType any
	if c.Type != "" {
		courtType = c.Type
	}
	_, err := r.db.ExecContext(ctx, q, c.Name, courtType, c.Indoor, c.BasePriceCents, c.SlotDurationMin, c.Active, c.ID)
	return err
}
