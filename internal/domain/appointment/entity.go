package appointment

import "time"

// Appointment is one booking of a service with a stylist.
// Date and Time are decoded at the repository boundary as YYYY-MM-DD and HH:MM.
type Appointment struct {
	ID           int64     `db:"id"`
	StylistID    int64     `db:"stylist_id"`
	ServiceID    int64     `db:"service_id"`
	Date         string    `db:"date"`
	Time         string    `db:"time"`
	CustomerName string    `db:"customer_name"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Detailed is an appointment joined with its service and stylist display fields
type Detailed struct {
	Appointment
	ServiceName     string `db:"service_name"`
	ServiceIcon     string `db:"service_icon"`
	DurationMinutes int    `db:"duration_minutes"`
	StylistName     string `db:"stylist_name"`
}

// sameSlot reports whether the appointment already sits at (stylist, date, time)
func (a *Appointment) sameSlot(stylistID int64, date, time string) bool {
	return a.StylistID == stylistID && a.Date == date && a.Time == time
}
