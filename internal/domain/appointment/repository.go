package appointment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/frizerski/booking-api/internal/domain/schedule"
	"github.com/frizerski/booking-api/internal/pkg/database"
)

// Repository defines appointment data access.
// Writes that must respect the no-overlap rule go through InTx.
type Repository interface {
	ListBooked(ctx context.Context, stylistID int64, date string) ([]schedule.Booked, error)
	List(ctx context.Context) ([]*Detailed, error)
	ListByDate(ctx context.Context, date string, stylistID int64) ([]*Detailed, error)
	GetByID(ctx context.Context, id int64) (*Detailed, error)
	Delete(ctx context.Context, id int64) (*Appointment, error)

	// InTx runs fn in one transaction, committing when fn returns nil and
	// rolling back otherwise (including on context cancellation).
	InTx(ctx context.Context, fn func(tx TxStore) error) error
}

// TxStore is the transactional view handed to InTx callbacks
type TxStore interface {
	// LockDay serializes check-then-write sequences for one (stylist, date)
	// until the transaction ends.
	LockDay(ctx context.Context, stylistID int64, date string) error
	// ListBooked lists the day's bookings, skipping excludeID (0 skips nothing).
	ListBooked(ctx context.Context, stylistID int64, date string, excludeID int64) ([]schedule.Booked, error)
	// GetForUpdate locks and returns the row, nil when it does not exist.
	GetForUpdate(ctx context.Context, id int64) (*Appointment, error)
	GetDetailed(ctx context.Context, id int64) (*Detailed, error)
	Insert(ctx context.Context, a *Appointment) error
	Update(ctx context.Context, a *Appointment) error
}

const slotConstraint = "appointments_stylist_date_time_key"

const appointmentColumns = `
	a.id, a.stylist_id, a.service_id,
	to_char(a.date, 'YYYY-MM-DD') AS date,
	to_char(a.time, 'HH24:MI') AS time,
	a.customer_name, a.phone, a.created_at, a.updated_at`

const detailedQuery = `
	SELECT ` + appointmentColumns + `,
	       s.name AS service_name, s.icon AS service_icon, s.duration_minutes,
	       st.name AS stylist_name
	FROM appointments a
	JOIN services s ON s.id = a.service_id
	JOIN stylists st ON st.id = a.stylist_id`

const bookedQuery = `
	SELECT to_char(a.time, 'HH24:MI') AS time, s.duration_minutes
	FROM appointments a
	JOIN services s ON s.id = a.service_id
	WHERE a.stylist_id = $1 AND a.date = $2::date AND a.id <> $3
	ORDER BY a.time`

type repository struct {
	db *sqlx.DB
}

// NewRepository creates appointment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListBooked(ctx context.Context, stylistID int64, date string) ([]schedule.Booked, error) {
	booked := []schedule.Booked{}
	if err := r.db.SelectContext(ctx, &booked, bookedQuery, stylistID, date, 0); err != nil {
		return nil, storageErr("list booked", err)
	}
	return booked, nil
}

func (r *repository) List(ctx context.Context) ([]*Detailed, error) {
	var items []*Detailed
	if err := r.db.SelectContext(ctx, &items, detailedQuery+` ORDER BY a.date DESC, a.time ASC`); err != nil {
		return nil, storageErr("list", err)
	}
	return items, nil
}

// ListByDate lists one day; a positive stylistID narrows to that stylist
func (r *repository) ListByDate(ctx context.Context, date string, stylistID int64) ([]*Detailed, error) {
	query := detailedQuery + ` WHERE a.date = $1::date`
	args := []interface{}{date}
	if stylistID > 0 {
		query += ` AND a.stylist_id = $2`
		args = append(args, stylistID)
	}
	query += ` ORDER BY a.time ASC, st.name ASC`

	var items []*Detailed
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, storageErr("list by date", err)
	}
	return items, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Detailed, error) {
	return getDetailed(ctx, r.db, id)
}

func (r *repository) Delete(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.db.GetContext(ctx, &a, `
		DELETE FROM appointments a
		WHERE a.id = $1
		RETURNING `+appointmentColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("delete", err)
	}
	return &a, nil
}

func (r *repository) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return storageErr("begin", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	return nil
}

type txStore struct {
	tx *sqlx.Tx
}

// LockDay takes a transaction-scoped advisory lock keyed by (stylist, day).
// Keys are int4 pairs; a wrapped stylist id can only make two stylists share
// a lock, never let two writers into the same day.
func (s *txStore) LockDay(ctx context.Context, stylistID int64, date string) error {
	day, err := schedule.DayNumber(date)
	if err != nil {
		return invalid("date", err.Error())
	}
	if _, err := s.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::int4, $2::int4)`, int32(stylistID), day); err != nil {
		return storageErr("lock day", err)
	}
	return nil
}

func (s *txStore) ListBooked(ctx context.Context, stylistID int64, date string, excludeID int64) ([]schedule.Booked, error) {
	booked := []schedule.Booked{}
	if err := s.tx.SelectContext(ctx, &booked, bookedQuery, stylistID, date, excludeID); err != nil {
		return nil, storageErr("list booked", err)
	}
	return booked, nil
}

func (s *txStore) GetForUpdate(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := s.tx.GetContext(ctx, &a, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get for update", err)
	}
	return &a, nil
}

func (s *txStore) GetDetailed(ctx context.Context, id int64) (*Detailed, error) {
	return getDetailed(ctx, s.tx, id)
}

func (s *txStore) Insert(ctx context.Context, a *Appointment) error {
	err := s.tx.QueryRowxContext(ctx, `
		INSERT INTO appointments (stylist_id, service_id, date, time, customer_name, phone)
		VALUES ($1, $2, $3::date, $4::time, $5, $6)
		RETURNING id, created_at, updated_at
	`, a.StylistID, a.ServiceID, a.Date, a.Time, a.CustomerName, a.Phone).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, slotConstraint) {
			return ErrSlotUnavailable
		}
		return storageErr("insert", err)
	}
	return nil
}

func (s *txStore) Update(ctx context.Context, a *Appointment) error {
	err := s.tx.QueryRowxContext(ctx, `
		UPDATE appointments
		SET stylist_id = $2, service_id = $3, date = $4::date, time = $5::time,
		    customer_name = $6, phone = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, a.ID, a.StylistID, a.ServiceID, a.Date, a.Time, a.CustomerName, a.Phone).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAppointmentNotFound
		}
		if database.IsUniqueViolation(err, slotConstraint) {
			return ErrSlotUnavailable
		}
		return storageErr("update", err)
	}
	return nil
}

func getDetailed(ctx context.Context, q sqlx.QueryerContext, id int64) (*Detailed, error) {
	var d Detailed
	if err := sqlx.GetContext(ctx, q, &d, detailedQuery+` WHERE a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get", err)
	}
	return &d, nil
}
