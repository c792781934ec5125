package stylist

import (
	"database/sql"
	"time"
)

// Stylist is a salon employee appointments are booked with
type Stylist struct {
	ID        int64          `db:"id"`
	Name      string         `db:"name"`
	Bio       sql.NullString `db:"bio"`
	ImageURL  sql.NullString `db:"image_url"`
	Active    bool           `db:"active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

// IsBookable reports whether new appointments may reference the stylist
func (s *Stylist) IsBookable() bool {
	return s != nil && s.Active
}
