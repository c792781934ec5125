package stylist

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*Stylist
}

func newFakeRepo(seed ...*Stylist) *fakeRepo {
	r := &fakeRepo{items: map[int64]*Stylist{}}
	for _, s := range seed {
		r.nextID++
		s.ID = r.nextID
		r.items[s.ID] = s
	}
	return r
}

func (r *fakeRepo) List(ctx context.Context, includeInactive bool) ([]*Stylist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Stylist
	for _, s := range r.items {
		if includeInactive || s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*Stylist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) Create(ctx context.Context, s *Stylist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, s *Stylist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return ErrStylistNotFound
	}
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *fakeRepo) SetImageURL(ctx context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return ErrStylistNotFound
	}
	s.ImageURL.String, s.ImageURL.Valid = url, true
	return nil
}

func (r *fakeRepo) Deactivate(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return false, nil
	}
	s.Active = false
	return true, nil
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStore) GetURL(key string) string { return "https://cdn.test/" + key }
