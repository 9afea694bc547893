package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/padelclub/court-auction/internal/model"
)

// PlayerRepo provides data access to the players table.
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo returns a PlayerRepo bound to the given database.
func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{db: db} }

func scanPlayer(row interface{ Scan(...any) error }) (*model.Player, error) {
	var p model.Player
	var city, category sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &city, &category, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.City = city.String
	p.Category = category.String
	return &p, nil
}

// Create inserts a player row.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player) error {
	const q = `INSERT INTO players (id, name, city, category) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Name, nullable(p.City), nullable(p.Category))
	return err
}

// GetByID loads one player; a missing row yields model.ErrPlayerNotFound.
func (r *PlayerRepo) GetByID(ctx context.Context, id string) (*model.Player, error) {
	const q = `SELECT id, name, city, category, created_at, updated_at FROM players WHERE id = ?`
	p, err := scanPlayer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update rewrites the mutable columns of a player.
func (r *PlayerRepo) Update(ctx context.Context, p *model.Player) error {
	const q = `UPDATE players SET name = ?, city = ?, category = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, nullable(p.City), nullable(p.Category), p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
