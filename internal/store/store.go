// Package store is the process-wide cache of the last fetched backend lists.
//
// Each list is replaced wholesale on every fetch. Readers take a Snapshot, which is
// immutable; a replacement swaps in a new snapshot atomically, so a reader never sees a
// half-written list. Only the current user survives a restart.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go-clinic-panel/internal/auth"
	"go-clinic-panel/internal/config"
	"go-clinic-panel/internal/models"
)

const keyAuth = "auth"

// Snapshot is one consistent view of every list. Callers must not modify its slices.
type Snapshot struct {
	Clients   []models.Client
	Personnel []models.Personnel
	Services  []models.Service
	Items     []models.Item
	Visits    []models.Visit
	Payments  []models.Payment
	Users     []models.User
	Auth      *models.User
}

// Event tells subscribers which slice changed.
type Event struct {
	Kind models.Kind `json:"kind"`
	Auth bool        `json:"auth,omitempty"`
}

type Store struct {
	snap    atomic.Pointer[Snapshot]
	writeMu sync.Mutex
	persist auth.Storage

	subMu  sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// New builds an empty store and restores the persisted auth slice from persist.
func New(ctx context.Context, persist auth.Storage) *Store {
	s := &Store{persist: persist, subs: map[int]func(Event){}}
	snap := &Snapshot{}
	if persist != nil {
		raw, ok, err := persist.Get(ctx, keyAuth)
		if err != nil {
			config.LogError(config.GetLogger(), "store", "New", "restore auth", nil, err)
		} else if ok {
			var u models.User
			if err := json.Unmarshal([]byte(raw), &u); err == nil {
				snap.Auth = &u
			}
		}
	}
	s.snap.Store(snap)
	return s
}

func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

func (s *Store) Clients() []models.Client { return s.Snapshot().Clients }
func (s *Store) Personnel() []models.Personnel { return s.Snapshot().Personnel }
func (s *Store) Services() []models.Service { return s.Snapshot().Services }
func (s *Store) Items() []models.Item { return s.Snapshot().Items }
func (s *Store) Visits() []models.Visit { return s.Snapshot().Visits }
func (s *Store) Payments() []models.Payment { return s.Snapshot().Payments }
func (s *Store) Users() []models.User { return s.Snapshot().Users }
func (s *Store) Auth() *models.User { return s.Snapshot().Auth }

func (s *Store) SetClients(v []models.Client) {
	s.swap(Event{Kind: models.KindClient}, func(n *Snapshot) { n.Clients = v })
}

func (s *Store) SetPersonnel(v []models.Personnel) {
	s.swap(Event{Kind: models.KindPersonnel}, func(n *Snapshot) { n.Personnel = v })
}

func (s *Store) SetServices(v []models.Service) {
	s.swap(Event{Kind: models.KindService}, func(n *Snapshot) { n.Services = v })
}

func (s *Store) SetItems(v []models.Item) {
	s.swap(Event{Kind: models.KindItem}, func(n *Snapshot) { n.Items = v })
}

func (s *Store) SetVisits(v []models.Visit) {
	s.swap(Event{Kind: models.KindVisit}, func(n *Snapshot) { n.Visits = v })
}

func (s *Store) SetPayments(v []models.Payment) {
	s.swap(Event{Kind: models.KindPayment}, func(n *Snapshot) { n.Payments = v })
}

func (s *Store) SetUsers(v []models.User) {
	s.swap(Event{Kind: models.KindUser}, func(n *Snapshot) { n.Users = v })
}

// SetAuth replaces and persists the current user; nil logs out.
func (s *Store) SetAuth(ctx context.Context, u *models.User) error {
	if s.persist != nil {
		if u == nil {
			if err := s.persist.Delete(ctx, keyAuth); err != nil {
				return err
			}
		} else {
			raw, err := json.Marshal(u)
			if err != nil {
				return err
			}
			if err := s.persist.Set(ctx, keyAuth, string(raw)); err != nil {
				return err
			}
		}
	}
	s.swap(Event{Kind: models.KindUser, Auth: true}, func(n *Snapshot) { n.Auth = u })
	return nil
}

// Reset drops every entity list; the auth slice is kept.
func (s *Store) Reset() {
	s.writeMu.Lock()
	next := &Snapshot{Auth: s.snap.Load().Auth}
	s.snap.Store(next)
	s.writeMu.Unlock()
	for _, k := range models.Kinds {
		s.publish(Event{Kind: k})
	}
}

// Subscribe registers fn for every replacement. fn runs on the writer's goroutine
// after the new snapshot is visible.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) swap(e Event, apply func(*Snapshot)) {
	s.writeMu.Lock()
	next := *s.snap.Load()
	apply(&next)
	s.snap.Store(&next)
	s.writeMu.Unlock()

	s.publish(e)
}

func (s *Store) publish(e Event) {
	s.subMu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
