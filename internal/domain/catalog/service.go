package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/domain/stylist"
)

// StylistLookup resolves the stylist a service may be pinned to
type StylistLookup interface {
	GetByID(ctx context.Context, id int64) (*stylist.Stylist, error)
}

// Manager handles service catalog business logic
type Manager struct {
	repo     Repository
	stylists StylistLookup
}

// NewManager creates catalog manager
func NewManager(repo Repository, stylists StylistLookup) *Manager {
	return &Manager{repo: repo, stylists: stylists}
}

// List returns the catalog, optionally narrowed to one stylist's offering
func (m *Manager) List(ctx context.Context, stylistID int64) ([]*Service, error) {
	return m.repo.List(ctx, stylistID)
}

// GetByID returns a service or ErrServiceNotFound
func (m *Manager) GetByID(ctx context.Context, id int64) (*Service, error) {
	s, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrServiceNotFound
	}
	return s, nil
}

// Create adds a service
func (m *Manager) Create(ctx context.Context, req *CreateRequest) (*Service, error) {
	s := &Service{}
	if err := m.apply(ctx, s, req); err != nil {
		return nil, err
	}
	if err := m.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	log.Info().Int64("service_id", s.ID).Str("name", s.Name).Int("duration", s.DurationMinutes).Msg("Service created")
	return s, nil
}

// Update replaces a service's fields. Existing appointments pick up the new
// duration on the next availability computation.
func (m *Manager) Update(ctx context.Context, id int64, req *UpdateRequest) (*Service, error) {
	s, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	create := CreateRequest(*req)
	if err := m.apply(ctx, s, &create); err != nil {
		return nil, err
	}
	if err := m.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a service that no appointment references
func (m *Manager) Delete(ctx context.Context, id int64) error {
	ok, err := m.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrServiceNotFound
	}
	log.Info().Int64("service_id", id).Msg("Service deleted")
	return nil
}

func (m *Manager) apply(ctx context.Context, s *Service, req *CreateRequest) error {
	s.Name = strings.TrimSpace(req.Name)
	desc := strings.TrimSpace(req.Description)
	s.Description = sql.NullString{String: desc, Valid: desc != ""}
	s.Price = req.Price
	s.DurationMinutes = req.DurationMinutes
	s.Icon = strings.TrimSpace(req.Icon)
	if s.Icon == "" {
		s.Icon = DefaultIcon
	}

	s.StylistID = sql.NullInt64{}
	if req.StylistID != nil {
		st, err := m.stylists.GetByID(ctx, *req.StylistID)
		if err != nil {
			return err
		}
		if st == nil {
			return ErrStylistNotFound
		}
		s.StylistID = sql.NullInt64{Int64: st.ID, Valid: true}
	}
	return nil
}
