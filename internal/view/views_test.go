package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/api/apitest"
	"github.com/coffeekz/appstate/internal/domain/entity"
	"github.com/coffeekz/appstate/internal/state"
	"github.com/coffeekz/appstate/pkg/kvstore"
)

func storeWith(backend *apitest.Client) *state.Store {
	return state.New(backend, kvstore.NewMemory(), nil)
}

func TestActiveCitiesFiltersInactive(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{Cities: []entity.City{
		{ID: "a", Name: "Almaty", IsActive: true},
		{ID: "b", Name: "Astana", IsActive: false},
	}})
	require.NoError(t, s.Cities.Load(ctx))

	v := New(s)
	got := v.ActiveCities()
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestCitiesForDisplayCyrillicQuery(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{Cities: []entity.City{
		{ID: "a", Name: "Almaty", NameRu: "Алматы", IsActive: true},
		{ID: "b", Name: "Astana", NameRu: "Астана", IsActive: true},
	}})
	require.NoError(t, s.Cities.Load(ctx))
	v := New(s)

	// empty query: the full list, unfiltered
	assert.Len(t, v.CitiesForDisplay(), 2)

	// typed query with no backend results yet: local match on NameRu
	s.Cities.SetQuery("алм")
	got := v.CitiesForDisplay()
	require.Len(t, got, 1)
	assert.Equal(t, "Алматы", got[0].NameRu)

	// backend results take precedence once they land
	require.NoError(t, s.Cities.Search(ctx, "аст"))
	got = v.CitiesForDisplay()
	require.Len(t, got, 1)
	assert.Equal(t, "Астана", got[0].NameRu)
}

func TestReferentialStability(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{Cities: []entity.City{
		{ID: "a", Name: "Almaty", IsActive: true},
		{ID: "b", Name: "Astana", IsActive: true},
	}})
	require.NoError(t, s.Cities.Load(ctx))
	v := New(s)

	first := v.ActiveCities()
	second := v.ActiveCities()
	assert.Same(t, &first[0], &second[0], "same revision must yield the same backing array")

	// an unrelated slice changing must not invalidate the memo
	s.Theme.SetMode(entity.ModeDark)
	third := v.ActiveCities()
	assert.Same(t, &first[0], &third[0])

	// a cities mutation does
	require.NoError(t, s.Cities.Load(ctx))
	fourth := v.ActiveCities()
	assert.NotSame(t, &first[0], &fourth[0])
}

func TestActiveCategoriesSorted(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{Categories: []entity.Category{
		{ID: "c3", Name: "Tea", SortOrder: 3, IsActive: true},
		{ID: "c1", Name: "Coffee", SortOrder: 1, IsActive: true},
		{ID: "c2", Name: "Desserts", SortOrder: 2, IsActive: false},
	}})
	require.NoError(t, s.General.LoadCategories(ctx))

	got := New(s).ActiveCategoriesSorted()
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)
}

func TestDefaultPaymentMethod(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{Methods: []entity.PaymentMethod{
		{ID: "m1", Title: "Visa", IsDefault: false, IsActive: true},
		{ID: "m2", Title: "Kaspi", IsDefault: true, IsActive: true},
	}})
	require.NoError(t, s.Payments.Load(ctx))
	v := New(s)

	got := v.DefaultPaymentMethod()
	require.NotNil(t, got)
	assert.Equal(t, "m2", got.ID)

	sum := v.Payments()
	assert.Equal(t, 2, sum.Count)
	assert.True(t, sum.HasDefault)
	assert.Equal(t, "m2", sum.DefaultID)

	require.NoError(t, s.Payments.Delete(ctx, "m2"))
	assert.Nil(t, v.DefaultPaymentMethod())
	assert.False(t, v.Payments().HasDefault)
}

func TestCartSummary(t *testing.T) {
	ctx := context.Background()
	s := storeWith(&apitest.Client{})
	require.NoError(t, s.Cart.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 2, UnitPrice: 1500}))
	require.NoError(t, s.Cart.Add(ctx, api.CartItemInput{ProductID: "p2", Quantity: 1, UnitPrice: 900}))

	got := New(s).Cart()
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, 3, got.TotalItems)
	assert.Equal(t, 3900.0, got.Total)
}

func TestSessionInfo(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{
		Token:    "tok",
		Password: "pw123456",
		User:     &entity.User{ID: "u1", Email: "dana@example.kz", FirstName: "Dana", LastName: "K"},
	}
	s := storeWith(backend)
	v := New(s)

	assert.False(t, v.Session().Authenticated)

	require.NoError(t, s.Auth.Login(ctx, api.Credentials{Email: "dana@example.kz", Password: "pw123456"}))
	got := v.Session()
	assert.True(t, got.Authenticated)
	assert.Equal(t, "Dana K", got.DisplayName)
}
