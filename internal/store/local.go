package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
)

// slot keys; the appointment key matches the original storage format
const (
	slotAppointments = "senior_appointments_v9"
	slotIdentity     = "senior_identity_v9"
	slotSession      = "senior_session_v9"
)

// Local keeps the collection in memory and serializes it to the
// appointment slot as JSON after every mutation. A missing or corrupt
// slot rehydrates as an empty collection, never an error.
type Local struct {
	db *kv.DB

	mu    sync.Mutex
	list  []model.Appointment
	subs  map[int]SnapshotFunc
	nextS int
}

func NewLocal(db *kv.DB) (*Local, error) {
	s := &Local{db: db, subs: make(map[int]SnapshotFunc)}
	raw, ok, err := db.Get(slotAppointments)
	if err != nil {
		return nil, err
	}
	if ok {
		var list []model.Appointment
		if jerr := json.Unmarshal([]byte(raw), &list); jerr == nil {
			for i := range list {
				list[i].Type = model.NormalizeType(list[i].Type)
			}
			s.list = list
		}
		// corrupt slot: start empty
	}
	return s, nil
}

func (s *Local) List(ctx context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

func (s *Local) Create(ctx context.Context, d model.Draft) (model.Appointment, error) {
	if err := validate(d); err != nil {
		return model.Appointment{}, err
	}
	s.mu.Lock()

	a := model.Appointment{
		ID:    uuid.New().String(),
		Title: d.Title,
		Date:  d.Date,
		Time:  d.Time,
		Type:  model.NormalizeType(d.Type),
	}
	next := append(s.snapshotLocked(), a)
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return model.Appointment{}, err
	}
	notify := s.notifierLocked()
	s.mu.Unlock()

	notify()
	return a, nil
}

func (s *Local) Delete(ctx context.Context, id string) error {
	s.mu.Lock()

	next := make([]model.Appointment, 0, len(s.list))
	found := false
	for _, a := range s.list {
		if a.ID == id {
			found = true
			continue
		}
		next = append(next, a)
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	notify := s.notifierLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// Replace swaps in an entirely new collection (backup import).
func (s *Local) Replace(ctx context.Context, list []model.Appointment) error {
	s.mu.Lock()

	next := make([]model.Appointment, len(list))
	copy(next, list)
	for i := range next {
		next[i].Type = model.NormalizeType(next[i].Type)
		if next[i].ID == "" {
			next[i].ID = uuid.New().String()
		}
	}
	if err := s.persistLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	notify := s.notifierLocked()
	s.mu.Unlock()

	notify()
	return nil
}

func (s *Local) Subscribe(ctx context.Context, fn SnapshotFunc) (func(), error) {
	s.mu.Lock()
	id := s.nextS
	s.nextS++
	s.subs[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}, nil
}

// persistLocked writes the collection to the slot; the in-memory list
// is only swapped once the write succeeded.
func (s *Local) persistLocked(next []model.Appointment) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.db.Put(slotAppointments, string(raw)); err != nil {
		return err
	}
	s.list = next
	return nil
}

func (s *Local) snapshotLocked() []model.Appointment {
	out := make([]model.Appointment, len(s.list))
	copy(out, s.list)
	return out
}

// notifierLocked snapshots the collection and subscriber set under the
// lock and returns the delivery step, so callbacks never run with the
// mutex held and may call back into the store.
func (s *Local) notifierLocked() func() {
	snap := s.snapshotLocked()
	fns := make([]SnapshotFunc, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
