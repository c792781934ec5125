package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/frizerski/booking-api/internal/domain/catalog"
	"github.com/frizerski/booking-api/internal/domain/schedule"
	"github.com/frizerski/booking-api/internal/domain/stylist"
)

// StylistLookup resolves stylists; GetByID returns nil when missing
type StylistLookup interface {
	GetByID(ctx context.Context, id int64) (*stylist.Stylist, error)
}

// ServiceLookup resolves catalog services; GetByID returns nil when missing
type ServiceLookup interface {
	GetByID(ctx context.Context, id int64) (*catalog.Service, error)
}

// Notifier is told whenever a (stylist, date) schedule changed
type Notifier interface {
	AvailabilityChanged(ctx context.Context, stylistID int64, date string)
}

// Service computes availability and enforces that no two appointments of
// one stylist overlap on a day.
type Service struct {
	repo     Repository
	stylists StylistLookup
	services ServiceLookup
	notifier Notifier
}

// NewService creates appointment service; notifier may be nil
func NewService(repo Repository, stylists StylistLookup, services ServiceLookup, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		stylists: stylists,
		services: services,
		notifier: notifier,
	}
}

// AvailableSlots returns free and occupied grid slots for booking serviceID
// with stylistID on date. Nothing is cached; every call reads current bookings.
func (s *Service) AvailableSlots(ctx context.Context, stylistID, serviceID int64, date string) (schedule.Availability, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return schedule.Availability{}, invalid("date", err.Error())
	}

	svc, err := s.resolve(ctx, stylistID, serviceID, 0)
	if err != nil {
		return schedule.Availability{}, err
	}

	booked, err := s.repo.ListBooked(ctx, stylistID, date)
	if err != nil {
		return schedule.Availability{}, err
	}

	avail, err := schedule.Compute(booked, svc.DurationMinutes)
	if err != nil {
		return schedule.Availability{}, storageErr("decode booked", err)
	}
	return avail, nil
}

// Create books a slot. The day is locked for the whole check-then-insert so
// concurrent requests for overlapping spans cannot both succeed.
func (s *Service) Create(ctx context.Context, in BookingInput) (*Detailed, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	svc, err := s.resolve(ctx, in.StylistID, in.ServiceID, 0)
	if err != nil {
		return nil, err
	}

	var created *Detailed
	err = s.repo.InTx(ctx, func(tx TxStore) error {
		if err := tx.LockDay(ctx, in.StylistID, in.Date); err != nil {
			return err
		}
		if err := requireFree(ctx, tx, in, svc.DurationMinutes, 0); err != nil {
			return err
		}

		a := in.appointment()
		if err := tx.Insert(ctx, a); err != nil {
			return err
		}

		d, err := tx.GetDetailed(ctx, a.ID)
		if err != nil {
			return err
		}
		created = d
		return nil
	})
	if err != nil {
		s.logConflict(err, in, 0)
		return nil, err
	}

	log.Info().
		Int64("appointment_id", created.ID).
		Int64("stylist_id", created.StylistID).
		Str("date", created.Date).
		Str("time", created.Time).
		Msg("Appointment created")

	s.notify(ctx, created.StylistID, created.Date)
	return created, nil
}

// Update replaces every field of an appointment. Moving it re-checks the
// target day with the appointment itself left out, so a booking may shift
// into a span it currently occupies.
func (s *Service) Update(ctx context.Context, id int64, in BookingInput) (*Detailed, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, err
	}

	var (
		updated *Detailed
		before  Appointment
	)
	err := s.repo.InTx(ctx, func(tx TxStore) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrAppointmentNotFound
		}
		before = *current

		keepStylist := int64(0)
		if current.StylistID == in.StylistID {
			keepStylist = in.StylistID
		}
		svc, err := s.resolve(ctx, in.StylistID, in.ServiceID, keepStylist)
		if err != nil {
			return err
		}

		unchanged := current.sameSlot(in.StylistID, in.Date, in.Time) && current.ServiceID == in.ServiceID
		if !unchanged {
			if err := tx.LockDay(ctx, in.StylistID, in.Date); err != nil {
				return err
			}
			if err := requireFree(ctx, tx, in, svc.DurationMinutes, id); err != nil {
				return err
			}
		}

		a := in.appointment()
		a.ID = id
		if err := tx.Update(ctx, a); err != nil {
			return err
		}

		d, err := tx.GetDetailed(ctx, id)
		if err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		s.logConflict(err, in, id)
		return nil, err
	}

	log.Info().
		Int64("appointment_id", id).
		Int64("stylist_id", updated.StylistID).
		Str("date", updated.Date).
		Str("time", updated.Time).
		Msg("Appointment updated")

	s.notify(ctx, before.StylistID, before.Date)
	if before.StylistID != updated.StylistID || before.Date != updated.Date {
		s.notify(ctx, updated.StylistID, updated.Date)
	}
	return updated, nil
}

// Delete removes an appointment, ErrAppointmentNotFound when nothing matched
func (s *Service) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed == nil {
		return ErrAppointmentNotFound
	}

	log.Info().
		Int64("appointment_id", id).
		Int64("stylist_id", removed.StylistID).
		Str("date", removed.Date).
		Msg("Appointment deleted")

	s.notify(ctx, removed.StylistID, removed.Date)
	return nil
}

// List returns every appointment, newest day first
func (s *Service) List(ctx context.Context) ([]*Detailed, error) {
	return s.repo.List(ctx)
}

// GetByID returns one appointment with display fields
func (s *Service) GetByID(ctx context.Context, id int64) (*Detailed, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrAppointmentNotFound
	}
	return d, nil
}

// ListByDate returns one day's appointments; stylistID 0 means all stylists
func (s *Service) ListByDate(ctx context.Context, date string, stylistID int64) ([]*Detailed, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, invalid("date", err.Error())
	}
	return s.repo.ListByDate(ctx, date, stylistID)
}

// resolve loads stylist and service and checks they can be booked together.
// An inactive stylist is accepted only when it equals allowInactive, which
// lets existing appointments of a deactivated stylist be edited in place.
func (s *Service) resolve(ctx context.Context, stylistID, serviceID, allowInactive int64) (*catalog.Service, error) {
	st, err := s.stylists.GetByID(ctx, stylistID)
	if err != nil {
		return nil, storageErr("get stylist", err)
	}
	if st == nil || (!st.Active && st.ID != allowInactive) {
		return nil, ErrStylistNotFound
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, storageErr("get service", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	if !svc.OfferedBy(stylistID) {
		return nil, invalid("service_id", "service is not offered by this stylist")
	}
	if err := schedule.ValidateDuration(svc.DurationMinutes); err != nil {
		return nil, invalid("service_id", err.Error())
	}
	return svc, nil
}

func requireFree(ctx context.Context, tx TxStore, in BookingInput, duration int, excludeID int64) error {
	booked, err := tx.ListBooked(ctx, in.StylistID, in.Date, excludeID)
	if err != nil {
		return err
	}
	free, err := schedule.IsFree(booked, in.Time, duration)
	if err != nil {
		return storageErr("decode booked", err)
	}
	if !free {
		return ErrSlotUnavailable
	}
	return nil
}

func (s *Service) notify(ctx context.Context, stylistID int64, date string) {
	if s.notifier == nil {
		return
	}
	s.notifier.AvailabilityChanged(ctx, stylistID, date)
}

func (s *Service) logConflict(err error, in BookingInput, id int64) {
	if !errors.Is(err, ErrSlotUnavailable) {
		return
	}
	log.Warn().
		Int64("appointment_id", id).
		Int64("stylist_id", in.StylistID).
		Str("date", in.Date).
		Str("time", in.Time).
		Msg("Slot conflict")
}

func (in BookingInput) normalized() BookingInput {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// validate repeats the request checks so non-HTTP callers get the same rules
func (in BookingInput) validate() error {
	fields := map[string]string{}
	if _, err := schedule.ParseDate(in.Date); err != nil {
		fields["date"] = err.Error()
	}
	if !schedule.IsGridSlot(in.Time) {
		fields["time"] = "time must be a slot start between 09:00 and 17:30"
	}
	if in.StylistID <= 0 {
		fields["stylist_id"] = "stylist_id is required"
	}
	if in.ServiceID <= 0 {
		fields["service_id"] = "service_id is required"
	}
	if in.CustomerName == "" {
		fields["customer_name"] = "customer_name is required"
	}
	if in.Phone == "" {
		fields["phone"] = "phone is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in BookingInput) appointment() *Appointment {
	return &Appointment{
		StylistID:    in.StylistID,
		ServiceID:    in.ServiceID,
		Date:         in.Date,
		Time:         in.Time,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
	}
}
