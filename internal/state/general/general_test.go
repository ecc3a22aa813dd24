package general

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeekz/appstate/internal/api/apitest"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

func TestLoadCategories(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{Categories: []entity.Category{
		{ID: "c1", Name: "Coffee", SortOrder: 1, IsActive: true},
		{ID: "c2", Name: "Desserts", SortOrder: 2, IsActive: true},
	}}
	s := New(backend, nil)

	require.NoError(t, s.LoadCategories(ctx))
	st := s.State()
	assert.Len(t, st.Categories, 2)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
}

func TestLoadCategoriesFailure(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{}
	backend.FailWith("GetCategories", assert.AnError)
	s := New(backend, nil)

	err := s.LoadCategories(ctx)
	require.Error(t, err)
	st := s.State()
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.Err)
	assert.Empty(t, st.Categories)
}
