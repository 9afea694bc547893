package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelclub/court-auction/internal/model"
)

// ClubRepo provides data access to the clubs table, including the geospatial
// nearby query used to fan auctions out to candidate hosts.
type ClubRepo struct {
	db *sql.DB
}

// NewClubRepo returns a ClubRepo bound to the given database.
func NewClubRepo(db *sql.DB) *ClubRepo { return &ClubRepo{db: db} }

const clubColumns = `id, name, city, latitude, longitude, created_at, updated_at`

func scanClub(row interface{ Scan(...any) error }) (*model.Club, error) {
	var c model.Club
	if err := row.Scan(&c.ID, &c.Name, &c.City, &c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a club row.
func (r *ClubRepo) Create(ctx context.Context, c *model.Club) error {
	const q = `INSERT INTO clubs (id, name, city, latitude, longitude) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.City, c.Latitude, c.Longitude)
	return err
}

// GetByID loads one club; a missing row yields model.ErrClubNotFound.
func (r *ClubRepo) GetByID(ctx context.Context, id string) (*model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs WHERE id = ?`
	c, err := scanClub(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrClubNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all clubs ordered by name.
func (r *ClubRepo) List(ctx context.Context) ([]*model.Club, error) {
	const q = `SELECT ` + clubColumns + ` FROM clubs ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
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

// FindNearby returns clubs within radiusKm of (lat, lon), nearest first. The
// distance is computed with the haversine formula directly in SQL; 6371 is
// the Earth radius in kilometers.
func (r *ClubRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Club, error) {
	const q = `SELECT ` + clubColumns + `, (
	               6371 * ACOS(
	                   COS(RADIANS(?)) * COS(RADIANS(latitude)) *
	                   COS(RADIANS(longitude) - RADIANS(?)) +
	                   SIN(RADIANS(?)) * SIN(RADIANS(latitude))
	               )
	           ) AS distance_km
	           FROM clubs
	           HAVING distance_km <= ?
	           ORDER BY distance_km`
	rows, err := r.db.QueryContext(ctx, q, lat, lon, lat, radiusKm)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Club, 0)
	for rows.Next() {
		var c model.Club
		var distance float64
		if err := rows.Scan(&c.ID, &c.Name, &c.City, &c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt, &distance); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
