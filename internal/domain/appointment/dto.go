package appointment

import (
	"time"

	"github.com/frizerski/booking-api/internal/domain/schedule"
)

// BookingRequest is the body of POST /appointments and PUT /appointments/{id}
type BookingRequest struct {
	ServiceID    int64  `json:"service_id" validate:"required,gt=0"`
	StylistID    int64  `json:"stylist_id" validate:"required,gt=0"`
	Date         string `json:"date" validate:"required,slot_date"`
	Time         string `json:"time" validate:"required,slot_time"`
	CustomerName string `json:"customer_name" validate:"required,min=2,max=255"`
	Phone        string `json:"phone" validate:"required,phone"`
}

// Input converts the request into the service-level booking input
func (r *BookingRequest) Input() BookingInput {
	return BookingInput{
		StylistID:    r.StylistID,
		ServiceID:    r.ServiceID,
		Date:         r.Date,
		Time:         r.Time,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
	}
}

// BookingInput is what Create and Update accept
type BookingInput struct {
	StylistID    int64
	ServiceID    int64
	Date         string
	Time         string
	CustomerName string
	Phone        string
}

// Response is the appointment representation with joined display fields
type Response struct {
	ID              int64     `json:"id"`
	StylistID       int64     `json:"stylist_id"`
	ServiceID       int64     `json:"service_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	EndTime         string    `json:"end_time"`
	CustomerName    string    `json:"customer_name"`
	Phone           string    `json:"phone"`
	ServiceName     string    `json:"service_name"`
	ServiceIcon     string    `json:"service_icon"`
	DurationMinutes int       `json:"duration_minutes"`
	StylistName     string    `json:"stylist_name"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ResponseFromDetailed converts a joined appointment to its response
func ResponseFromDetailed(d *Detailed) *Response {
	resp := &Response{
		ID:              d.ID,
		StylistID:       d.StylistID,
		ServiceID:       d.ServiceID,
		Date:            d.Date,
		Time:            d.Time,
		CustomerName:    d.CustomerName,
		Phone:           d.Phone,
		ServiceName:     d.ServiceName,
		ServiceIcon:     d.ServiceIcon,
		DurationMinutes: d.DurationMinutes,
		StylistName:     d.StylistName,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if iv, err := schedule.ToInterval(d.Time, d.DurationMinutes); err == nil {
		resp.EndTime = schedule.FormatClock(iv.End)
	}
	return resp
}

// ListResponse converts a slice, never returning nil
func ListResponse(items []*Detailed) []*Response {
	out := make([]*Response, 0, len(items))
	for _, d := range items {
		out = append(out, ResponseFromDetailed(d))
	}
	return out
}
