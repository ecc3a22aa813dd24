package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/api/apitest"
)

func TestAddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{}, nil)

	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 2, UnitPrice: 500}))
	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 1, UnitPrice: 500}))

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 3, st.Items[0].Quantity)
	assert.Equal(t, 1500.0, st.Items[0].TotalPrice)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{}, nil)
	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 2, UnitPrice: 500}))
	id := s.State().Items[0].ID

	require.NoError(t, s.UpdateQuantity(ctx, id, 0))
	assert.Empty(t, s.State().Items)
}

func TestUpdateQuantityRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{}, nil)
	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 1, UnitPrice: 750}))
	id := s.State().Items[0].ID

	require.NoError(t, s.UpdateQuantity(ctx, id, 4))
	st := s.State()
	assert.Equal(t, 4, st.Items[0].Quantity)
	assert.Equal(t, 3000.0, st.Items[0].TotalPrice)
}

func TestAddFailureStoresMessage(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{}
	backend.FailWith("AddCartItem", assert.AnError)
	s := New(backend, nil)

	err := s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 1, UnitPrice: 500})
	require.Error(t, err)
	st := s.State()
	assert.Empty(t, st.Items)
	assert.NotEmpty(t, st.Err)
	assert.False(t, st.Loading)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{}, nil)
	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p1", Quantity: 1, UnitPrice: 500}))
	require.NoError(t, s.Add(ctx, api.CartItemInput{ProductID: "p2", Quantity: 2, UnitPrice: 300}))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.State().Items)
}
