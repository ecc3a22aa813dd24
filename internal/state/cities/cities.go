// Package cities owns the city list, the selected city, and the search
// sub-state. Selection only ever points at a city present in the loaded list.
package cities

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the cities sub-state.
type State struct {
	Cities        []entity.City
	Selected      *entity.City
	SearchResults []entity.City
	Query         string
	Loading       bool
	Searching     bool
	Err           string
}

// Slice owns the cities state.
type Slice struct {
	mu     sync.Mutex
	st     State
	rev    uint64
	api    api.Client
	logger *logrus.Logger
	notify func()
}

func New(client api.Client, logger *logrus.Logger) *Slice {
	return &Slice{api: client, logger: logger}
}

func (s *Slice) OnChange(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *Slice) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Slice) Rev() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

func (s *Slice) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.st)
	s.rev++
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (s *Slice) reject(op string, err error, fallback string) error {
	msg := api.ErrorMessage(err, fallback)
	s.mutate(func(st *State) {
		st.Loading = false
		st.Searching = false
		st.Err = msg
	})
	if s.logger != nil {
		s.logger.WithError(err).WithField("op", op).Warn("cities operation failed")
	}
	return err
}

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// Load fetches the full city list.
func (s *Slice) Load(ctx context.Context) error {
	s.mutate(func(st *State) {
		st.Loading = true
		st.Err = ""
	})
	out, err := s.api.GetCities(ctx)
	if err != nil {
		return s.reject("load", err, "failed to load cities")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Cities = out
		// re-point the selection at the fresh list, dropping it when the
		// city no longer exists
		if st.Selected != nil {
			st.Selected = findCity(out, st.Selected.ID)
		}
	})
	return nil
}

// Select picks a city by id. The selection is only applied when the id is
// present in the loaded list.
func (s *Slice) Select(id string) bool {
	applied := false
	s.mutate(func(st *State) {
		if c := findCity(st.Cities, id); c != nil {
			st.Selected = c
			applied = true
		}
	})
	if !applied && s.logger != nil {
		s.logger.WithField("city_id", id).Warn("ignoring selection of unknown city")
	}
	return applied
}

// SetQuery records what the user has typed so far. The actual backend search
// is dispatched separately (typically debounced by the caller).
func (s *Slice) SetQuery(q string) {
	s.mutate(func(st *State) {
		st.Query = q
		if strings.TrimSpace(q) == "" {
			st.SearchResults = nil
			st.Searching = false
		}
	})
}

// Search queries the backend. An empty query clears the results without a
// network call.
func (s *Slice) Search(ctx context.Context, q string) error {
	if strings.TrimSpace(q) == "" {
		s.mutate(func(st *State) {
			st.Query = q
			st.SearchResults = nil
			st.Searching = false
			st.Err = ""
		})
		return nil
	}
	s.mutate(func(st *State) {
		st.Query = q
		st.Searching = true
		st.Err = ""
	})
	out, err := s.api.SearchCities(ctx, q)
	if err != nil {
		return s.reject("search", err, "city search failed")
	}
	s.mutate(func(st *State) {
		st.Searching = false
		st.SearchResults = out
	})
	return nil
}

// ClearSearch resets the query and its results.
func (s *Slice) ClearSearch() {
	s.mutate(func(st *State) {
		st.Query = ""
		st.SearchResults = nil
		st.Searching = false
	})
}

func findCity(list []entity.City, id string) *entity.City {
	for i := range list {
		if list[i].ID == id {
			c := list[i]
			return &c
		}
	}
	return nil
}
