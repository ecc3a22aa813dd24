package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/api/apitest"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

func backendWithProfile() *apitest.Client {
	return &apitest.Client{
		Password: "secret123",
		Profile: &entity.UserProfile{
			ID:        "u1",
			Email:     "aigerim@example.kz",
			FirstName: "Aigerim",
			LastName:  "Satpayeva",
		},
	}
}

func TestLoadAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := New(backendWithProfile(), nil)

	require.NoError(t, s.Load(ctx))
	st := s.State()
	require.NotNil(t, st.Profile)
	assert.Equal(t, "Aigerim Satpayeva", st.Profile.FullName())
	assert.False(t, st.Loading)

	require.NoError(t, s.Update(ctx, api.ProfileUpdate{FirstName: "Aika"}))
	assert.Equal(t, "Aika", s.State().Profile.FirstName)
	assert.Equal(t, "Satpayeva", s.State().Profile.LastName)
}

func TestLoadUnauthenticatedStoresError(t *testing.T) {
	ctx := context.Background()
	s := New(&apitest.Client{}, nil)

	err := s.Load(ctx)
	require.Error(t, err)
	st := s.State()
	assert.Nil(t, st.Profile)
	assert.False(t, st.Loading)
	assert.Equal(t, "not authenticated", st.Err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	ctx := context.Background()
	s := New(backendWithProfile(), nil)

	err := s.ChangePassword(ctx, api.PasswordChange{CurrentPassword: "nope", NewPassword: "newsecret1"})
	require.Error(t, err)
	assert.Equal(t, "current password is incorrect", s.State().Err)

	require.NoError(t, s.ChangePassword(ctx, api.PasswordChange{CurrentPassword: "secret123", NewPassword: "newsecret1"}))
	assert.Empty(t, s.State().Err)
}

func TestDeleteAccountClearsProfile(t *testing.T) {
	ctx := context.Background()
	s := New(backendWithProfile(), nil)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.DeleteAccount(ctx, api.AccountDeletion{Password: "secret123"}))
	assert.Nil(t, s.State().Profile)
}
