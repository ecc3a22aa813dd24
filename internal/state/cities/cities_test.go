package cities

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeekz/appstate/internal/api/apitest"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

func kzCities() []entity.City {
	return []entity.City{
		{ID: "a", Name: "Almaty", NameRu: "Алматы", IsActive: true},
		{ID: "b", Name: "Astana", NameRu: "Астана", IsActive: false},
		{ID: "c", Name: "Shymkent", NameRu: "Шымкент", IsActive: true},
	}
}

func TestLoadAndSelect(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{Cities: kzCities()}, nil)

	require.NoError(t, s.Load(ctx))
	assert.Len(t, s.State().Cities, 3)

	assert.True(t, s.Select("a"))
	require.NotNil(t, s.State().Selected)
	assert.Equal(t, "Almaty", s.State().Selected.Name)

	assert.False(t, s.Select("nope"), "unknown id must not change the selection")
	assert.Equal(t, "a", s.State().Selected.ID)
}

func TestSelectionDroppedWhenCityDisappears(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{Cities: kzCities()}
	s := New(backend, nil)

	require.NoError(t, s.Load(ctx))
	require.True(t, s.Select("c"))

	backend.Cities = kzCities()[:2] // Shymkent gone
	require.NoError(t, s.Load(ctx))
	assert.Nil(t, s.State().Selected)
}

func TestSearchStoresResultsAndEmptyQueryClears(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{Cities: kzCities()}, nil)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.Search(ctx, "алм"))
	st := s.State()
	require.Len(t, st.SearchResults, 1)
	assert.Equal(t, "Алматы", st.SearchResults[0].NameRu)
	assert.False(t, st.Searching)

	require.NoError(t, s.Search(ctx, ""))
	st = s.State()
	assert.Nil(t, st.SearchResults)
	assert.Empty(t, st.Query)
}

func TestSearchFailureStoresMessage(t *testing.T) {
	ctx := context.Background()
	backend := &apitest.Client{Cities: kzCities()}
	s := New(backend, nil)

	backend.FailWith("SearchCities", assert.AnError)
	err := s.Search(ctx, "ast")
	require.Error(t, err)
	st := s.State()
	assert.False(t, st.Searching)
	assert.NotEmpty(t, st.Err)
}
