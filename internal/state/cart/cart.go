// Package cart owns the persisted cart, kept in sync with the backend
// through the cart CRUD endpoints. The backend is authoritative: every write
// merges the confirmed line back into state.
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the cart sub-state.
type State struct {
	Items   []entity.CartItem
	Loading bool
	Err     string
}

// Slice owns the cart state.
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
		s.logger.WithError(err).WithField("op", op).Warn("cart operation failed")
	}
	return err
}

// ClearError drops the stored error message.
func (s *Slice) ClearError() {
	s.mutate(func(st *State) { st.Err = "" })
}

// Load fetches the persisted cart.
func (s *Slice) Load(ctx context.Context) error {
	s.begin()
	out, err := s.api.GetCart(ctx)
	if err != nil {
		return s.reject("load", err, "failed to load cart")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Items = normalize(out)
	})
	return nil
}

// Add sends a new line to the backend and merges the confirmed item back.
func (s *Slice) Add(ctx context.Context, in api.CartItemInput) error {
	s.begin()
	item, err := s.api.AddCartItem(ctx, in)
	if err != nil {
		return s.reject("add", err, "failed to add to cart")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Items = upsert(st.Items, *item)
	})
	return nil
}

// AddItem is the plain-product form of Add, the integration point the
// sticky-cart commit uses.
func (s *Slice) AddItem(ctx context.Context, productID string, quantity int, unitPrice float64) error {
	return s.Add(ctx, api.CartItemInput{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
}

// UpdateQuantity changes a line's quantity. Zero or negative removes the
// line instead.
func (s *Slice) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, id)
	}
	s.begin()
	item, err := s.api.UpdateCartItem(ctx, id, quantity)
	if err != nil {
		return s.reject("update quantity", err, "failed to update cart")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Items = upsert(st.Items, *item)
	})
	return nil
}

// Remove deletes a line.
func (s *Slice) Remove(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.RemoveCartItem(ctx, id); err != nil {
		return s.reject("remove", err, "failed to remove from cart")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		out := make([]entity.CartItem, 0, len(st.Items))
		for _, it := range st.Items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		st.Items = out
	})
	return nil
}

// Clear empties the cart.
func (s *Slice) Clear(ctx context.Context) error {
	s.begin()
	if err := s.api.ClearCart(ctx); err != nil {
		return s.reject("clear", err, "failed to clear cart")
	}
	s.mutate(func(st *State) {
		st.Loading = false
		st.Items = nil
	})
	return nil
}

// upsert replaces the line with a matching id or appends. The total is
// recomputed so it cannot drift from quantity and unit price.
func upsert(items []entity.CartItem, item entity.CartItem) []entity.CartItem {
	item.TotalPrice = item.UnitPrice * float64(item.Quantity)
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == item.ID {
			out[i] = item
			return out
		}
	}
	return append(out, item)
}

func normalize(items []entity.CartItem) []entity.CartItem {
	out := make([]entity.CartItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].TotalPrice = out[i].UnitPrice * float64(out[i].Quantity)
	}
	return out
}
