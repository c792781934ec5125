package catalog

import "time"

// CreateRequest for POST /services
type CreateRequest struct {
	Name            string  `json:"name" validate:"required,min=2,max=255"`
	Description     string  `json:"description,omitempty" validate:"max=2000"`
	Price           float64 `json:"price" validate:"gte=0"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,service_duration"`
	Icon            string  `json:"icon,omitempty" validate:"max=16"`
	StylistID       *int64  `json:"stylist_id,omitempty" validate:"omitempty,gt=0"`
}

// UpdateRequest for PUT /services/{id}; the whole service is replaced
type UpdateRequest CreateRequest

// Response is the public service representation
type Response struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Icon            string    `json:"icon"`
	StylistID       *int64    `json:"stylist_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// ResponseFromEntity converts a Service to its response
func ResponseFromEntity(s *Service) *Response {
	resp := &Response{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description.String,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		Icon:            s.Icon,
		CreatedAt:       s.CreatedAt,
	}
	if s.StylistID.Valid {
		id := s.StylistID.Int64
		resp.StylistID = &id
	}
	return resp
}

// ListResponse converts a slice, never returning nil
func ListResponse(items []*Service) []*Response {
	out := make([]*Response, 0, len(items))
	for _, s := range items {
		out = append(out, ResponseFromEntity(s))
	}
	return out
}
