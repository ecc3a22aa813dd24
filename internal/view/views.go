// Package view is the derived-view layer: pure, memoized projections over
// the store. A derivation recomputes only when its slice's revision moved,
// so an unchanged slice yields the identical result reference and the UI
// skips re-rendering. No function here performs I/O or mutates state.
package view

import (
	"sort"
	"strings"
	"sync"

	"github.com/coffeekz/appstate/internal/domain/entity"
	"github.com/coffeekz/appstate/internal/state"
	"github.com/coffeekz/appstate/internal/state/sticky"
)

// memo caches one derivation keyed by the owning slice's revision.
type memo[T any] struct {
	rev uint64
	ok  bool
	val T
}

func (m *memo[T]) get(rev uint64, compute func() T) T {
	if m.ok && m.rev == rev {
		return m.val
	}
	m.val = compute()
	m.rev = rev
	m.ok = true
	return m.val
}

// SessionInfo is the composed auth view.
type SessionInfo struct {
	Authenticated bool
	UserID        string
	DisplayName   string
	Email         string
}

// PaymentSummary is the composed payment-methods view.
type PaymentSummary struct {
	Count      int
	HasDefault bool
	DefaultID  string
}

// CartSummary is the composed cart view.
type CartSummary struct {
	ItemCount  int
	TotalItems int
	Total      float64
}

// Views derives read-only projections over a store.
type Views struct {
	store *state.Store

	mu              sync.Mutex
	activeCities    memo[[]entity.City]
	displayCities   memo[[]entity.City]
	sortedCats      memo[[]entity.Category]
	defaultMethod   memo[*entity.PaymentMethod]
	paymentSummary  memo[PaymentSummary]
	cartSummary     memo[CartSummary]
	sessionInfo     memo[SessionInfo]
	activePayments  memo[[]entity.PaymentMethod]
}

// New binds a view layer to a store.
func New(store *state.Store) *Views {
	return &Views{store: store}
}

// ActiveCities returns only the cities the chain currently operates in.
func (v *Views) ActiveCities() []entity.City {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activeCities.get(v.store.Cities.Rev(), func() []entity.City {
		st := v.store.Cities.State()
		out := make([]entity.City, 0, len(st.Cities))
		for _, c := range st.Cities {
			if c.IsActive {
				out = append(out, c)
			}
		}
		return out
	})
}

// CitiesForDisplay resolves what the city picker shows: the full list when
// the query is empty, the backend's results when it answered, and otherwise
// a local case-insensitive match over Name, NameRu and NameKz (covers
// Cyrillic input).
func (v *Views) CitiesForDisplay() []entity.City {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.displayCities.get(v.store.Cities.Rev(), func() []entity.City {
		st := v.store.Cities.State()
		q := strings.ToLower(strings.TrimSpace(st.Query))
		if q == "" {
			return st.Cities
		}
		if len(st.SearchResults) > 0 {
			return st.SearchResults
		}
		out := make([]entity.City, 0, len(st.Cities))
		for _, c := range st.Cities {
			if strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.NameRu), q) ||
				strings.Contains(strings.ToLower(c.NameKz), q) {
				out = append(out, c)
			}
		}
		return out
	})
}

// ActiveCategoriesSorted returns active categories in ascending sort order.
func (v *Views) ActiveCategoriesSorted() []entity.Category {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sortedCats.get(v.store.General.Rev(), func() []entity.Category {
		st := v.store.General.State()
		out := make([]entity.Category, 0, len(st.Categories))
		for _, c := range st.Categories {
			if c.IsActive {
				out = append(out, c)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].SortOrder < out[j].SortOrder
		})
		return out
	})
}

// ActivePaymentMethods filters out deactivated instruments.
func (v *Views) ActivePaymentMethods() []entity.PaymentMethod {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activePayments.get(v.store.Payments.Rev(), func() []entity.PaymentMethod {
		st := v.store.Payments.State()
		out := make([]entity.PaymentMethod, 0, len(st.Methods))
		for _, m := range st.Methods {
			if m.IsActive {
				out = append(out, m)
			}
		}
		return out
	})
}

// DefaultPaymentMethod returns the flagged method, or nil when none is set.
func (v *Views) DefaultPaymentMethod() *entity.PaymentMethod {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.defaultMethod.get(v.store.Payments.Rev(), func() *entity.PaymentMethod {
		st := v.store.Payments.State()
		for i := range st.Methods {
			if st.Methods[i].IsDefault {
				m := st.Methods[i]
				return &m
			}
		}
		return nil
	})
}

// Payments composes the payment-methods summary for view convenience.
func (v *Views) Payments() PaymentSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paymentSummary.get(v.store.Payments.Rev(), func() PaymentSummary {
		st := v.store.Payments.State()
		out := PaymentSummary{Count: len(st.Methods)}
		for _, m := range st.Methods {
			if m.IsDefault {
				out.HasDefault = true
				out.DefaultID = m.ID
			}
		}
		return out
	})
}

// Cart composes the cart summary.
func (v *Views) Cart() CartSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cartSummary.get(v.store.Cart.Rev(), func() CartSummary {
		st := v.store.Cart.State()
		out := CartSummary{ItemCount: len(st.Items)}
		for _, it := range st.Items {
			out.TotalItems += it.Quantity
			out.Total += it.TotalPrice
		}
		return out
	})
}

// Session composes the auth view.
func (v *Views) Session() SessionInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sessionInfo.get(v.store.Auth.Rev(), func() SessionInfo {
		st := v.store.Auth.State()
		if !st.Authenticated || st.User == nil {
			return SessionInfo{}
		}
		name := strings.TrimSpace(st.User.FirstName + " " + st.User.LastName)
		return SessionInfo{
			Authenticated: true,
			UserID:        st.User.ID,
			DisplayName:   name,
			Email:         st.User.Email,
		}
	})
}

// StickyTotals recomputes the sticky-cart totals. The sticky slice already
// derives these from its maps on every call; the view simply forwards.
func (v *Views) StickyTotals() sticky.Totals {
	return v.store.Sticky.Totals()
}
