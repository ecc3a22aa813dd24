// Package profile owns the profile slice. The profile is never persisted
// on-device; it is reloaded from the backend whenever a session exists.
package profile

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the profile sub-state.
type State struct {
	Profile *entity.UserProfile
	Loading bool
	Err     string
}

// Slice owns the profile state.
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

func (s *Slice) begin() {
	s.mutate(func(st *State) {
		st.Loading = true
		st.Err = ""
	})
}

func (s *Slice) reject(op string, err error, fallback string) error {
	msg := api.ErrorMessage(err, fallback)
	s.mutate(func(st *State) {
		st.Loading = false
		st.Err = msg
	})
	if s.logger != nil {
		s.logger.WithError(err).WithField("op", op).Warn("profile operation failed")
	}
	return err
}

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// Clear drops the loaded profile, used when the session ends.
func (s *Slice) Clear() {
	s.mutate(func(st *State) { *st = State{} })
}

// Load fetches the profile from the backend.
func (s *Slice) Load(ctx context.Context) error {
	s.begin()
	p, err := s.api.GetProfile(ctx)
	if err != nil {
		return s.reject("load", err, "failed to load profile")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Profile = p
	})
	return nil
}

// Update pushes edited fields and stores the confirmed profile.
func (s *Slice) Update(ctx context.Context, upd api.ProfileUpdate) error {
	s.begin()
	p, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		return s.reject("update", err, "failed to update profile")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Profile = p
	})
	return nil
}

// ChangePassword rotates the account password. The profile itself is
// unchanged on success.
func (s *Slice) ChangePassword(ctx context.Context, chg api.PasswordChange) error {
	s.begin()
	if err := s.api.ChangePassword(ctx, chg); err != nil {
		return s.reject("change password", err, "failed to change password")
	}
	s.mutate(func(st *State) { st.Loading = false })
	return nil
}

// DeleteAccount removes the account server-side and clears the profile. The
// caller is responsible for the follow-up logout.
func (s *Slice) DeleteAccount(ctx context.Context, del api.AccountDeletion) error {
	s.begin()
	if err := s.api.DeleteAccount(ctx, del); err != nil {
		return s.reject("delete account", err, "failed to delete account")
	}
	s.mutate(func(st *State) { *st = State{} })
	return nil
}
