package stylist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines stylist data access
type Repository interface {
	List(ctx context.Context, includeInactive bool) ([]*Stylist, error)
	GetByID(ctx context.Context, id int64) (*Stylist, error)
	Create(ctx context.Context, s *Stylist) error
	Update(ctx context.Context, s *Stylist) error
	SetImageURL(ctx context.Context, id int64, url string) error
	Deactivate(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates stylist repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectColumns = `id, name, bio, image_url, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, includeInactive bool) ([]*Stylist, error) {
	query := `SELECT ` + selectColumns + ` FROM stylists`
	if !includeInactive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC, id ASC`

	var items []*Stylist
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("stylist repository list: %w", err)
	}
	return items, nil
}

// GetByID returns the stylist regardless of active flag, nil when missing
func (r *repository) GetByID(ctx context.Context, id int64) (*Stylist, error) {
	var s Stylist
	err := r.db.GetContext(ctx, &s, `SELECT `+selectColumns+` FROM stylists WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("stylist repository get: %w", err)
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *Stylist) error {
	query := `
		INSERT INTO stylists (name, bio, image_url, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.Name, s.Bio, s.ImageURL, s.Active).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("stylist repository create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, s *Stylist) error {
	query := `
		UPDATE stylists
		SET name = $2, bio = $3, active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, s.ID, s.Name, s.Bio, s.Active).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStylistNotFound
		}
		return fmt.Errorf("stylist repository update: %w", err)
	}
	return nil
}

func (r *repository) SetImageURL(ctx context.Context, id int64, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stylists SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("stylist repository set image: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStylistNotFound
	}
	return nil
}

// Deactivate soft-deletes the stylist; existing appointments keep referencing it
func (r *repository) Deactivate(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stylists SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("stylist repository deactivate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
