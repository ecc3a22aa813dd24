// Package general owns app-wide reference data, currently the menu
// categories.
package general

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the general sub-state.
type State struct {
	Categories []entity.Category
	Loading    bool
	Err        string
}

// Slice owns the general state.
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

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// LoadCategories fetches the menu categories.
func (s *Slice) LoadCategories(ctx context.Context) error {
	s.mutate(func(st *State) {
		st.Loading = true
		st.Err = ""
	})
	out, err := s.api.GetCategories(ctx)
	if err != nil {
		msg := api.ErrorMessage(err, "failed to load categories")
		s.mutate(func(st *State) {
			st.Loading = false
			st.Err = msg
		})
		if s.logger != nil {
			s.logger.WithError(err).Warn("load categories failed")
		}
		return err
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Categories = out
	})
	return nil
}
