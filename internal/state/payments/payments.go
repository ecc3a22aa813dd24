// Package payments owns the saved payment methods. The collection invariant
// is that at most one method carries the default flag; every write path below
// re-establishes it rather than trusting prior state.
package payments

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the payment-methods sub-state.
type State struct {
	Methods []entity.PaymentMethod
	Loading bool
	Err     string
}

// Slice owns the payment-methods state.
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
		s.logger.WithError(err).WithField("op", op).Warn("payment operation failed")
	}
	return err
}

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// Load fetches the method collection.
func (s *Slice) Load(ctx context.Context) error {
	s.begin()
	out, err := s.api.GetPaymentMethods(ctx)
	if err != nil {
		return s.reject("load", err, "failed to load payment methods")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Methods = out
	})
	return nil
}

// Create adds a method. When the payload asks for default, existing defaults
// are cleared optimistically, before the server round-trip completes.
func (s *Slice) Create(ctx context.Context, in api.PaymentMethodInput) error {
	s.begin()
	if in.IsDefault {
		s.mutate(func(st *State) {
			st.Methods = clearDefaults(st.Methods)
		})
	}
	m, err := s.api.CreatePaymentMethod(ctx, in)
	if err != nil {
		return s.reject("create", err, "failed to add payment method")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		methods := st.Methods
		if m.IsDefault {
			methods = clearDefaults(methods)
		}
		st.Methods = append(methods, *m)
	})
	return nil
}

// Update edits a method. Unlike Create, defaults are cleared reactively,
// only after the server confirms.
func (s *Slice) Update(ctx context.Context, id string, in api.PaymentMethodInput) error {
	s.begin()
	m, err := s.api.UpdatePaymentMethod(ctx, id, in)
	if err != nil {
		return s.reject("update", err, "failed to update payment method")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		methods := st.Methods
		if m.IsDefault {
			methods = clearDefaults(methods)
		}
		out := make([]entity.PaymentMethod, len(methods))
		copy(out, methods)
		for i := range out {
			if out[i].ID == m.ID {
				out[i] = *m
			}
		}
		st.Methods = out
	})
	return nil
}

// Delete removes a method.
func (s *Slice) Delete(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeletePaymentMethod(ctx, id); err != nil {
		return s.reject("delete", err, "failed to remove payment method")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		out := make([]entity.PaymentMethod, 0, len(st.Methods))
		for _, m := range st.Methods {
			if m.ID != id {
				out = append(out, m)
			}
		}
		st.Methods = out
	})
	return nil
}

// SetDefault marks one method as the default. After the server confirms, the
// whole collection is remapped so exactly the confirmed id carries the flag,
// repairing any prior corruption.
func (s *Slice) SetDefault(ctx context.Context, id string) error {
	s.begin()
	confirmed, err := s.api.SetDefaultPaymentMethod(ctx, id)
	if err != nil {
		return s.reject("set default", err, "failed to set default payment method")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		out := make([]entity.PaymentMethod, len(st.Methods))
		copy(out, st.Methods)
		for i := range out {
			out[i].IsDefault = out[i].ID == confirmed
		}
		st.Methods = out
	})
	return nil
}

func clearDefaults(methods []entity.PaymentMethod) []entity.PaymentMethod {
	out := make([]entity.PaymentMethod, len(methods))
	copy(out, methods)
	for i := range out {
		out[i].IsDefault = false
	}
	return out
}
