// Package sticky holds the in-progress product selection for one browsing
// session. It is never persisted and flows into the real cart only through
// Commit.
package sticky

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/api"
)

// State is the ephemeral selection. Selected keeps insertion order;
// Quantities and Prices are keyed by product id.
type State struct {
	Selected   []string
	Quantities map[string]int
	Prices     map[string]float64
	Visible    bool
}

// Totals is the derived amount/count pair, always recomputed from the maps.
type Totals struct {
	Amount float64
	Items  int
}

// FailedItem is one product that could not be committed.
type FailedItem struct {
	ProductID string
	Message   string
}

// CommitResult reports a per-item commit. ItemsCount is the number of
// products added, TotalItems the number of units.
type CommitResult struct {
	ItemsCount int
	TotalItems int
	Failed     []FailedItem
}

// CartAdder is the one integration point between the ephemeral selection and
// the persisted cart.
type CartAdder interface {
	AddItem(ctx context.Context, productID string, quantity int, unitPrice float64) error
}

// Slice owns the sticky selection.
type Slice struct {
	mu     sync.Mutex
	st     State
	rev    uint64
	logger *logrus.Logger
	notify func()
}

func New(logger *logrus.Logger) *Slice {
	return &Slice{
		st: State{
			Quantities: map[string]int{},
			Prices:     map[string]float64{},
		},
		logger: logger,
	}
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

// AddOrUpdate upserts a product selection. The quantity replaces the
// previous one rather than adding to it; zero or negative removes the
// product entirely.
func (s *Slice) AddOrUpdate(productID string, quantity int, unitPrice float64) {
	s.mutate(func(st *State) {
		quantities := copyInts(st.Quantities)
		prices := copyFloats(st.Prices)
		selected := append([]string(nil), st.Selected...)

		_, present := quantities[productID]
		if quantity <= 0 {
			if present {
				delete(quantities, productID)
				delete(prices, productID)
				selected = remove(selected, productID)
			}
		} else {
			if !present {
				selected = append(selected, productID)
			}
			quantities[productID] = quantity
			prices[productID] = unitPrice
		}

		st.Selected = selected
		st.Quantities = quantities
		st.Prices = prices
		st.Visible = len(selected) > 0
	})
}

// Clear resets the selection and hides the sticky affordance.
func (s *Slice) Clear() {
	s.mutate(func(st *State) {
		st.Selected = nil
		st.Quantities = map[string]int{}
		st.Prices = map[string]float64{}
		st.Visible = false
	})
}

// Totals recomputes the derived pair from the maps. Nothing is cached, so
// the result can never drift from the selection.
func (s *Slice) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t Totals
	for id, qty := range s.st.Quantities {
		t.Items += qty
		t.Amount += float64(qty) * s.st.Prices[id]
	}
	return t
}

// Commit moves the selection into the persisted cart, one product at a time.
// Success is per-item: products that go through are dropped from the
// selection, failures stay behind for retry. Only a fully successful commit
// hides the sticky affordance.
func (s *Slice) Commit(ctx context.Context, adder CartAdder) CommitResult {
	st := s.State()
	var res CommitResult
	var succeeded []string

	for _, id := range st.Selected {
		qty := st.Quantities[id]
		price := st.Prices[id]
		if err := adder.AddItem(ctx, id, qty, price); err != nil {
			res.Failed = append(res.Failed, FailedItem{
				ProductID: id,
				Message:   api.ErrorMessage(err, "failed to add to cart"),
			})
			if s.logger != nil {
				s.logger.WithError(err).WithField("product_id", id).Warn("sticky commit item failed")
			}
			continue
		}
		res.ItemsCount++
		res.TotalItems += qty
		succeeded = append(succeeded, id)
	}

	if len(res.Failed) == 0 {
		s.Clear()
		return res
	}

	s.mutate(func(st *State) {
		quantities := copyInts(st.Quantities)
		prices := copyFloats(st.Prices)
		selected := append([]string(nil), st.Selected...)
		for _, id := range succeeded {
			delete(quantities, id)
			delete(prices, id)
			selected = remove(selected, id)
		}
		st.Selected = selected
		st.Quantities = quantities
		st.Prices = prices
		st.Visible = len(selected) > 0
	})
	return res
}

func remove(list []string, id string) []string {
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloats(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
