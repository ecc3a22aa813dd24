// Package state composes the domain slices into the process-wide store,
// applies the selective persistence boundary, and runs the startup
// orchestration. UI code dispatches through the slice methods and reads
// derived views; nothing here performs rendering.
package state

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/state/auth"
	"github.com/coffeekz/appstate/internal/state/cart"
	"github.com/coffeekz/appstate/internal/state/cities"
	"github.com/coffeekz/appstate/internal/state/general"
	"github.com/coffeekz/appstate/internal/state/payments"
	"github.com/coffeekz/appstate/internal/state/profile"
	"github.com/coffeekz/appstate/internal/state/sticky"
	"github.com/coffeekz/appstate/internal/state/theme"
	"github.com/coffeekz/appstate/pkg/kvstore"
)

// Store is the root state container. Each slice exclusively owns its
// subtree; cross-slice reads go through the view layer.
type Store struct {
	Auth     *auth.Slice
	Profile  *profile.Slice
	Theme    *theme.Slice
	Cities   *cities.Slice
	General  *general.Slice
	Payments *payments.Slice
	Cart     *cart.Slice
	Sticky   *sticky.Slice

	logger  *logrus.Logger
	persist *Persistor

	mu      sync.Mutex
	subs    map[int]func()
	nextSub int

	rev      atomic.Uint64
	hydrated atomic.Bool
}

// New wires the slices over the API collaborator and the storage adapter.
// logger may be nil.
func New(client api.Client, kv kvstore.Store, logger *logrus.Logger) *Store {
	s := &Store{
		Auth:     auth.New(client, kv, logger),
		Profile:  profile.New(client, logger),
		Theme:    theme.New(logger),
		Cities:   cities.New(client, logger),
		General:  general.New(client, logger),
		Payments: payments.New(client, logger),
		Cart:     cart.New(client, logger),
		Sticky:   sticky.New(logger),
		logger:   logger,
		subs:     map[int]func(){},
	}
	s.Auth.OnChange(s.broadcast)
	s.Profile.OnChange(s.broadcast)
	s.Theme.OnChange(s.broadcast)
	s.Cities.OnChange(s.broadcast)
	s.General.OnChange(s.broadcast)
	s.Payments.OnChange(s.broadcast)
	s.Cart.OnChange(s.broadcast)
	s.Sticky.OnChange(s.broadcast)
	s.persist = NewPersistor(s, kv, logger)
	return s
}

func (s *Store) broadcast() {
	s.rev.Add(1)
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Subscribe registers fn to run after every state mutation. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Rev is the global revision, bumped on every mutation in any slice.
func (s *Store) Rev() uint64 {
	return s.rev.Load()
}

// Hydrated reports whether persisted state has been restored. The app
// subtree renders nothing until this is true.
func (s *Store) Hydrated() bool {
	return s.hydrated.Load()
}

// Persistor exposes the persistence boundary for explicit saves.
func (s *Store) Persistor() *Persistor {
	return s.persist
}
