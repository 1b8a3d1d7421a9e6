package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"travgram/internal/models"
)

// staging collects changes until the next Save.
type staging struct {
	mu      sync.Mutex
	pending []op
}

func (s *staging) stage(o op) {
	s.mu.Lock()
	s.pending = append(s.pending, o)
	s.mu.Unlock()
}

func (s *staging) Insert(e Entity) { s.stage(newOp(opInsert, e)) }
func (s *staging) Update(e Entity) { s.stage(newOp(opUpdate, e)) }
func (s *staging) Delete(e Entity) { s.stage(newOp(opDelete, e)) }
func (s *staging) DeleteAllUsers() { s.stage(op{kind: opDeleteAllUsers}) }

func (s *staging) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// take removes and returns the staged changes.
func (s *staging) take() []op {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := s.pending
	s.pending = nil
	return ops
}

// MemoryStore keeps records in process memory. It enforces the same
// constraints as the SQL schema: unique ids, unique emails and cascading
// trip deletion when the owner goes away.
type MemoryStore struct {
	staging

	dataMu sync.RWMutex
	data   memoryData
}

type memoryData struct {
	users  map[string]models.User
	emails map[string]string
	trips  map[string]models.Trip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: memoryData{
		users:  map[string]models.User{},
		emails: map[string]string{},
		trips:  map[string]models.Trip{},
	}}
}

func (s *MemoryStore) FetchUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	var out []models.User
	for _, u := range s.data.users {
		if f.matches(u) {
			out = append(out, u.Clone())
		}
	}
	return out, nil
}

func (s *MemoryStore) FetchTrips(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	var out []models.Trip
	for _, t := range s.data.trips {
		if f.matches(t) {
			out = append(out, t.Clone())
		}
	}
	sortTrips(out, f.OrderBy)
	return out, nil
}

func sortTrips(trips []models.Trip, key SortKey) {
	switch key {
	case SortByDate:
		sort.SliceStable(trips, func(i, j int) bool {
			if !trips[i].Date.Equal(trips[j].Date) {
				return trips[i].Date.Before(trips[j].Date)
			}
			return trips[i].ID < trips[j].ID
		})
	case SortByName:
		sort.SliceStable(trips, func(i, j int) bool {
			if trips[i].Name != trips[j].Name {
				return trips[i].Name < trips[j].Name
			}
			return trips[i].ID < trips[j].ID
		})
	}
}

// Save applies the staged changes to a copy of the data and swaps it in only
// if every change succeeded.
func (s *MemoryStore) Save(ctx context.Context) error {
	ops := s.take()
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	next := s.data.clone()
	for _, o := range ops {
		if err := next.apply(o); err != nil {
			return fmt.Errorf("%s: %w", o.kind, err)
		}
	}
	s.data = next
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (d memoryData) clone() memoryData {
	out := memoryData{
		users:  make(map[string]models.User, len(d.users)),
		emails: make(map[string]string, len(d.emails)),
		trips:  make(map[string]models.Trip, len(d.trips)),
	}
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.emails {
		out.emails[k] = v
	}
	for k, v := range d.trips {
		out.trips[k] = v
	}
	return out
}

func (d memoryData) apply(o op) error {
	switch o.kind {
	case opDeleteAllUsers:
		for k := range d.users {
			delete(d.users, k)
		}
		for k := range d.emails {
			delete(d.emails, k)
		}
		for k := range d.trips {
			delete(d.trips, k)
		}
		return nil
	}
	if o.user != nil {
		return d.applyUser(o.kind, *o.user)
	}
	return d.applyTrip(o.kind, *o.trip)
}

func (d memoryData) applyUser(kind opKind, u models.User) error {
	switch kind {
	case opInsert:
		if _, ok := d.users[u.ID]; ok {
			return fmt.Errorf("user %s: %w", u.ID, ErrDuplicate)
		}
		if _, ok := d.emails[u.Email]; ok {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
		d.users[u.ID] = u
		d.emails[u.Email] = u.ID
	case opUpdate:
		old, ok := d.users[u.ID]
		if !ok {
			return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
		}
		if old.Email != u.Email {
			if _, taken := d.emails[u.Email]; taken {
				return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
			}
			delete(d.emails, old.Email)
			d.emails[u.Email] = u.ID
		}
		d.users[u.ID] = u
	case opDelete:
		old, ok := d.users[u.ID]
		if !ok {
			return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
		}
		delete(d.users, u.ID)
		delete(d.emails, old.Email)
		for id, t := range d.trips {
			if t.OwnerID == u.ID {
				delete(d.trips, id)
			}
		}
	}
	return nil
}

func (d memoryData) applyTrip(kind opKind, t models.Trip) error {
	switch kind {
	case opInsert:
		if _, ok := d.trips[t.ID]; ok {
			return fmt.Errorf("trip %s: %w", t.ID, ErrDuplicate)
		}
		if _, ok := d.users[t.OwnerID]; !ok {
			return fmt.Errorf("trip owner %s: %w", t.OwnerID, ErrNotFound)
		}
		d.trips[t.ID] = t
	case opUpdate:
		if _, ok := d.trips[t.ID]; !ok {
			return fmt.Errorf("trip %s: %w", t.ID, ErrNotFound)
		}
		d.trips[t.ID] = t
	case opDelete:
		if _, ok := d.trips[t.ID]; !ok {
			return fmt.Errorf("trip %s: %w", t.ID, ErrNotFound)
		}
		delete(d.trips, t.ID)
	}
	return nil
}
