package stylist

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/pkg/imaging"
	"github.com/frizerski/booking-api/internal/pkg/storage"
)

// Service handles stylist business logic
type Service struct {
	repo      Repository
	store     storage.Storage // nil disables portrait uploads
	processor *imaging.Processor
}

// NewService creates stylist service
func NewService(repo Repository, store storage.Storage, processor *imaging.Processor) *Service {
	if processor == nil {
		processor = imaging.NewProcessor(imaging.DefaultConfig())
	}
	return &Service{repo: repo, store: store, processor: processor}
}

// ListActive returns bookable stylists ordered by name
func (s *Service) ListActive(ctx context.Context) ([]*Stylist, error) {
	return s.repo.List(ctx, false)
}

// ListAll returns every stylist including deactivated ones
func (s *Service) ListAll(ctx context.Context) ([]*Stylist, error) {
	return s.repo.List(ctx, true)
}

// GetActive returns an active stylist; inactive ones are reported as not found
func (s *Service) GetActive(ctx context.Context, id int64) (*Stylist, error) {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !st.IsBookable() {
		return nil, ErrStylistNotFound
	}
	return st, nil
}

// GetByID returns a stylist regardless of its active flag
func (s *Service) GetByID(ctx context.Context, id int64) (*Stylist, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, ErrStylistNotFound
	}
	return st, nil
}

// Create adds an active stylist
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Stylist, error) {
	st := &Stylist{
		Name:   strings.TrimSpace(req.Name),
		Bio:    nullString(req.Bio),
		Active: true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	log.Info().Int64("stylist_id", st.ID).Str("name", st.Name).Msg("Stylist created")
	return st, nil
}

// Update applies the non-nil fields of req
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*Stylist, error) {
	st, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		st.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		st.Bio = nullString(*req.Bio)
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Deactivate hides the stylist from listings and new bookings
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStylistNotFound
	}
	log.Info().Int64("stylist_id", id).Msg("Stylist deactivated")
	return nil
}

// UploadPortrait validates, crops and stores a new portrait, then records its URL.
// The previous portrait objects are removed best-effort.
func (s *Service) UploadPortrait(ctx context.Context, id int64, r io.Reader) (*Stylist, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	st, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, _, err := storage.ValidateFile(r, storage.PortraitMimeTypes, storage.MaxPortraitSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	portrait, err := s.processor.Process(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	fullKey, thumbKey := imaging.PortraitKeys(id, uuid.NewString())
	if err := s.store.Put(ctx, fullKey, bytes.NewReader(portrait.Full), portrait.ContentType); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, thumbKey, bytes.NewReader(portrait.Thumbnail), portrait.ContentType); err != nil {
		_ = s.store.Delete(ctx, fullKey)
		return nil, err
	}

	url := s.store.GetURL(fullKey)
	if err := s.repo.SetImageURL(ctx, id, url); err != nil {
		_ = s.store.Delete(ctx, fullKey)
		_ = s.store.Delete(ctx, thumbKey)
		return nil, err
	}

	s.removeOldPortrait(ctx, st.ImageURL.String)

	st.ImageURL = nullString(url)
	return st, nil
}

func (s *Service) removeOldPortrait(ctx context.Context, url string) {
	key := storage.KeyFromURL(s.store, url)
	if key == "" {
		return
	}
	thumb := strings.TrimSuffix(key, ".jpg") + "_thumb.jpg"
	for _, k := range []string{key, thumb} {
		if err := s.store.Delete(ctx, k); err != nil {
			log.Warn().Err(err).Str("key", k).Msg("Failed to delete old portrait")
		}
	}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
