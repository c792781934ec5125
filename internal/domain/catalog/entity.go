package catalog

import (
	"database/sql"
	"time"
)

// DefaultIcon is shown for services created without one
const DefaultIcon = "💇"

// Service is a bookable salon service (haircut, colouring, ...)
type Service struct {
	ID              int64          `db:"id"`
	Name            string         `db:"name"`
	Description     sql.NullString `db:"description"`
	Price           float64        `db:"price"`
	DurationMinutes int            `db:"duration_minutes"`
	Icon            string         `db:"icon"`
	StylistID       sql.NullInt64  `db:"stylist_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// OfferedBy reports whether stylistID may perform the service.
// Services without a stylist are offered by everyone.
func (s *Service) OfferedBy(stylistID int64) bool {
	return !s.StylistID.Valid || s.StylistID.Int64 == stylistID
}
