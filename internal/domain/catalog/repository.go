package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frizerski/booking-api/internal/pkg/database"
)

// Repository defines service catalog data access
type Repository interface {
	List(ctx context.Context, stylistID int64) ([]*Service, error)
	GetByID(ctx context.Context, id int64) (*Service, error)
	Create(ctx context.Context, s *Service) error
	Update(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates catalog repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const selectColumns = `id, name, description, price, duration_minutes, icon, stylist_id, created_at, updated_at`

// List returns all services; a positive stylistID narrows to what that stylist offers
func (r *repository) List(ctx context.Context, stylistID int64) ([]*Service, error) {
	query := `SELECT ` + selectColumns + ` FROM services`
	args := []interface{}{}
	if stylistID > 0 {
		query += ` WHERE stylist_id IS NULL OR stylist_id = $1`
		args = append(args, stylistID)
	}
	query += ` ORDER BY name ASC, id ASC`

	var items []*Service
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("catalog repository list: %w", err)
	}
	return items, nil
}

// GetByID returns the service or nil when missing
func (r *repository) GetByID(ctx context.Context, id int64) (*Service, error) {
	var s Service
	err := r.db.GetContext(ctx, &s, `SELECT `+selectColumns+` FROM services WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog repository get: %w", err)
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *Service) error {
	query := `
		INSERT INTO services (name, description, price, duration_minutes, icon, stylist_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.Name, s.Description, s.Price, s.DurationMinutes, s.Icon, s.StylistID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err, "") {
			return ErrStylistNotFound
		}
		return fmt.Errorf("catalog repository create: %w", err)
	}
	return nil
}

func (r *repository) Update(ctx context.Context, s *Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, price = $4, duration_minutes = $5, icon = $6,
		    stylist_id = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Description, s.Price, s.DurationMinutes, s.Icon, s.StylistID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrServiceNotFound
		}
		if database.IsForeignKeyViolation(err, "") {
			return ErrStylistNotFound
		}
		return fmt.Errorf("catalog repository update: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err, "") {
			return false, ErrServiceInUse
		}
		return false, fmt.Errorf("catalog repository delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
