package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/model"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server/store"
)

// fakeUsers is an in-memory UsersStore for authenticator tests.
type fakeUsers struct {
	users map[string]*model.User
}

func (f *fakeUsers) CreateUser(user *model.User) error { return nil }

func (f *fakeUsers) UserByUsername(username string) (*model.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) ListUsers(limit, offset int) ([]model.User, error) { return nil, nil }
func (f *fakeUsers) CountUsers() (int64, error)                        { return 0, nil }
func (f *fakeUsers) UpdatePassword(username, hashed string) error      { return nil }
func (f *fakeUsers) SetActive(username string, active bool) error      { return nil }

func newFakeUsers(t *testing.T, active bool) *fakeUsers {
	t.Helper()
	hashed, err := password.Hash("correct-password", bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUsers{users: map[string]*model.User{
		"alice": {
			ID:             1,
			Username:       "alice",
			Email:          "alice@example.com",
			HashedPassword: hashed,
			IsActive:       active,
		},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	auth := New(newFakeUsers(t, true))

	user, err := auth.Authenticate(context.Background(), authenticator.Input{
		Username: "alice",
		Password: "correct-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	auth := New(newFakeUsers(t, true))

	_, err := auth.Authenticate(context.Background(), authenticator.Input{
		Username: "alice",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	auth := New(newFakeUsers(t, true))

	_, err := auth.Authenticate(context.Background(), authenticator.Input{
		Username: "nobody",
		Password: "correct-password",
	})
	assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	auth := New(newFakeUsers(t, false))

	_, err := auth.Authenticate(context.Background(), authenticator.Input{
		Username: "alice",
		Password: "correct-password",
	})
	assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
}

func TestAuthenticateEmptyCredentials(t *testing.T) {
	auth := New(newFakeUsers(t, true))

	_, err := auth.Authenticate(context.Background(), authenticator.Input{})
	assert.ErrorIs(t, err, authenticator.ErrInvalidCredentials)
}

func TestRegistry(t *testing.T) {
	registry := authenticator.NewRegistry()
	registry.Register(New(newFakeUsers(t, true)))

	_, ok := registry.Get("local")
	assert.True(t, ok)
	assert.False(t, registry.IsEnabled("local"))

	require.NoError(t, registry.Enable("local"))
	assert.True(t, registry.IsEnabled("local"))
	assert.Equal(t, []string{"local"}, registry.Enabled())

	assert.Error(t, registry.Enable("no-such-authenticator"))
}
