package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRepoStub = NewStubUserRepo()

func setup(t *testing.T) (Service, func()) {
	service := NewUserService(userRepoStub)
	return service, func() {
		t.Log("Teardown after test")
		userRepoStub.Reset()
	}
}

func TestUserServiceImpl_CreateUser(t *testing.T) {

	t.Run("should assign a uid and id on creation", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		newUser := User{Username: "jane", DisplayName: "Jane", Settings: Settings{Currency: "EUR", Timezone: "Europe/Berlin"}}

		// when
		created, err := service.CreateUser(context.Background(), newUser)

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.NotEmpty(t, created.Uid)
		assert.Equal(t, "jane", created.Username)
	})

	t.Run("should reject users without a username or display name", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.CreateUser(context.Background(), User{DisplayName: "No Name"})

		// then
		assert.ErrorIs(t, err, ErrUserDataInvalid)
	})
}

func TestUserServiceImpl_GetCurrentUser(t *testing.T) {

	t.Run("should return the user carried by the context", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateUser(context.Background(), User{Username: "jane", DisplayName: "Jane"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		current, err := service.GetCurrentUser(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, created.Uid, current.Uid)
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.GetCurrentUser(context.Background())

		// then
		assert.ErrorIs(t, err, ErrNoUser)
	})
}

func TestUserServiceImpl_UpdateUser(t *testing.T) {

	t.Run("should update display name and settings of the current user", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		created, err := service.CreateUser(context.Background(), User{Username: "jane", DisplayName: "Jane"})
		require.NoError(t, err)
		ctx := WithUser(context.Background(), created)

		// when
		updated, err := service.UpdateUser(ctx, User{DisplayName: "Jane D.", Settings: Settings{Currency: "PLN", Timezone: "Europe/Warsaw"}})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Jane D.", updated.DisplayName)
		assert.Equal(t, "PLN", updated.Settings.Currency)

		// username is never touched by an update
		stored, err := service.GetUserByUid(context.Background(), created.Uid)
		require.NoError(t, err)
		assert.Equal(t, "jane", stored.Username)
	})
}

func TestUserServiceImpl_IsUsernameAvailable(t *testing.T) {

	t.Run("should report taken usernames", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.CreateUser(context.Background(), User{Username: "jane", DisplayName: "Jane"})
		require.NoError(t, err)

		// when
		available, err := service.IsUsernameAvailable(context.Background(), "jane")

		// then
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("should report free usernames", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		available, err := service.IsUsernameAvailable(context.Background(), "nobody")

		// then
		require.NoError(t, err)
		assert.True(t, available)
	})
}
