package stylist

import "time"

// CreateRequest for POST /stylists
type CreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Bio  string `json:"bio,omitempty" validate:"max=2000"`
}

// UpdateRequest for PUT /stylists/{id}; nil fields are left unchanged
type UpdateRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Bio    *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Active *bool   `json:"active,omitempty"`
}

// Response is the public stylist representation
type Response struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseFromEntity converts a Stylist to its response
func ResponseFromEntity(s *Stylist) *Response {
	return &Response{
		ID:        s.ID,
		Name:      s.Name,
		Bio:       s.Bio.String,
		ImageURL:  s.ImageURL.String,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

// ListResponse converts a slice, never returning nil
func ListResponse(items []*Stylist) []*Response {
	out := make([]*Response, 0, len(items))
	for _, s := range items {
		out = append(out, ResponseFromEntity(s))
	}
	return out
}
