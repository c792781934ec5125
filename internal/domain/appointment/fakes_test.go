package appointment

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/frizerski/booking-api/internal/domain/catalog"
	"github.com/frizerski/booking-api/internal/domain/schedule"
	"github.com/frizerski/booking-api/internal/domain/stylist"
)

type fakeStylists map[int64]*stylist.Stylist

func (f fakeStylists) GetByID(ctx context.Context, id int64) (*stylist.Stylist, error) {
	s, ok := f[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

type fakeServices map[int64]*catalog.Service

func (f fakeServices) GetByID(ctx context.Context, id int64) (*catalog.Service, error) {
	s, ok := f[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// fakeRepo keeps appointments in memory. InTx serializes on the same keys the
// database locks (stylist day, row) and undoes writes when fn fails.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Appointment

	stylists fakeStylists
	services fakeServices

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	failWith error
}

func newFakeRepo(stylists fakeStylists, services fakeServices) *fakeRepo {
	return &fakeRepo{
		items:    map[int64]*Appointment{},
		stylists: stylists,
		services: services,
		locks:    map[string]*sync.Mutex{},
	}
}

func (r *fakeRepo) lockFor(key string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

func (r *fakeRepo) bookedLocked(stylistID int64, date string, excludeID int64) []schedule.Booked {
	booked := []schedule.Booked{}
	for _, a := range r.items {
		if a.StylistID != stylistID || a.Date != date || a.ID == excludeID {
			continue
		}
		booked = append(booked, schedule.Booked{
			Time:            a.Time,
			DurationMinutes: r.services[a.ServiceID].DurationMinutes,
		})
	}
	sort.Slice(booked, func(i, j int) bool { return booked[i].Time < booked[j].Time })
	return booked
}

func (r *fakeRepo) detailedLocked(id int64) *Detailed {
	a, ok := r.items[id]
	if !ok {
		return nil
	}
	svc := r.services[a.ServiceID]
	return &Detailed{
		Appointment:     *a,
		ServiceName:     svc.Name,
		ServiceIcon:     svc.Icon,
		DurationMinutes: svc.DurationMinutes,
		StylistName:     r.stylists[a.StylistID].Name,
	}
}

func (r *fakeRepo) ListBooked(ctx context.Context, stylistID int64, date string) ([]schedule.Booked, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookedLocked(stylistID, date, 0), nil
}

func (r *fakeRepo) List(ctx context.Context) ([]*Detailed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Detailed
	for id := range r.items {
		out = append(out, r.detailedLocked(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *fakeRepo) ListByDate(ctx context.Context, date string, stylistID int64) ([]*Detailed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Detailed
	for id, a := range r.items {
		if a.Date == date && (stylistID == 0 || a.StylistID == stylistID) {
			out = append(out, r.detailedLocked(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*Detailed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detailedLocked(id), nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	delete(r.items, id)
	return a, nil
}

func (r *fakeRepo) InTx(ctx context.Context, fn func(tx TxStore) error) error {
	tx := &fakeTx{repo: r, undo: map[int64]*Appointment{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		tx.rollback()
		return storageErr("commit", err)
	}
	return nil
}

// snapshot returns every appointment, for invariant checks
func (r *fakeRepo) snapshot() []Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Appointment, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, *a)
	}
	return out
}

type fakeTx struct {
	repo *fakeRepo
	held []*sync.Mutex
	keys map[string]bool

	// undo maps touched ids to their prior value, nil for inserted rows
	undo map[int64]*Appointment
}

func (t *fakeTx) acquire(key string) {
	if t.keys == nil {
		t.keys = map[string]bool{}
	}
	if t.keys[key] {
		return
	}
	m := t.repo.lockFor(key)
	m.Lock()
	t.keys[key] = true
	t.held = append(t.held, m)
}

func (t *fakeTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *fakeTx) rollback() {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for id, prev := range t.undo {
		if prev == nil {
			delete(t.repo.items, id)
			continue
		}
		t.repo.items[id] = prev
	}
}

func (t *fakeTx) remember(id int64) {
	if _, seen := t.undo[id]; seen {
		return
	}
	if prev, ok := t.repo.items[id]; ok {
		cp := *prev
		t.undo[id] = &cp
		return
	}
	t.undo[id] = nil
}

func (t *fakeTx) LockDay(ctx context.Context, stylistID int64, date string) error {
	if _, err := schedule.DayNumber(date); err != nil {
		return invalid("date", err.Error())
	}
	t.acquire(fmt.Sprintf("day:%d:%s", stylistID, date))
	return nil
}

func (t *fakeTx) ListBooked(ctx context.Context, stylistID int64, date string, excludeID int64) ([]schedule.Booked, error) {
	t.repo.mu.Lock()
	booked := t.repo.bookedLocked(stylistID, date, excludeID)
	t.repo.mu.Unlock()
	// widen the check-then-write window so unlocked callers would race
	runtime.Gosched()
	return booked, nil
}

func (t *fakeTx) GetForUpdate(ctx context.Context, id int64) (*Appointment, error) {
	t.acquire(fmt.Sprintf("row:%d", id))
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	a, ok := t.repo.items[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (t *fakeTx) GetDetailed(ctx context.Context, id int64) (*Detailed, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	return t.repo.detailedLocked(id), nil
}

func (t *fakeTx) Insert(ctx context.Context, a *Appointment) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	for _, other := range t.repo.items {
		if other.sameSlot(a.StylistID, a.Date, a.Time) {
			return ErrSlotUnavailable
		}
	}
	t.repo.nextID++
	a.ID = t.repo.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	t.remember(a.ID)
	cp := *a
	t.repo.items[a.ID] = &cp
	return nil
}

func (t *fakeTx) Update(ctx context.Context, a *Appointment) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	prev, ok := t.repo.items[a.ID]
	if !ok {
		return ErrAppointmentNotFound
	}
	for _, other := range t.repo.items {
		if other.ID != a.ID && other.sameSlot(a.StylistID, a.Date, a.Time) {
			return ErrSlotUnavailable
		}
	}
	t.remember(a.ID)
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = time.Now()
	cp := *a
	t.repo.items[a.ID] = &cp
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) AvailabilityChanged(ctx context.Context, stylistID int64, date string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fmt.Sprintf("%d:%s", stylistID, date))
}

func (n *recordingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

const testDate = "2024-05-01"

// fixture: stylist 1 (Ana) and 2 (Marko, inactive), services of every duration
func newFixture() (*Service, *fakeRepo, *recordingNotifier) {
	stylists := fakeStylists{
		1: {ID: 1, Name: "Ana", Active: true},
		2: {ID: 2, Name: "Marko", Active: false},
		3: {ID: 3, Name: "Ivana", Active: true},
	}
	services := fakeServices{
		30:  {ID: 30, Name: "Trim", DurationMinutes: 30, Icon: "✂️"},
		60:  {ID: 60, Name: "Haircut", DurationMinutes: 60, Icon: "💇"},
		90:  {ID: 90, Name: "Colour", DurationMinutes: 90, Icon: "🎨"},
		120: {ID: 120, Name: "Perm", DurationMinutes: 120, Icon: "💇"},
	}
	services[7] = &catalog.Service{ID: 7, Name: "Beard", DurationMinutes: 30, Icon: "🧔"}
	services[7].StylistID.Int64, services[7].StylistID.Valid = 3, true

	repo := newFakeRepo(stylists, services)
	notifier := &recordingNotifier{}
	return NewService(repo, stylists, services, notifier), repo, notifier
}

func booking(stylistID, serviceID int64, date, tm string) BookingInput {
	return BookingInput{
		StylistID:    stylistID,
		ServiceID:    serviceID,
		Date:         date,
		Time:         tm,
		CustomerName: "Jelena",
		Phone:        "+385 91 234 5678",
	}
}
