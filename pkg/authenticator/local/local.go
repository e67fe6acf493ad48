// Package local implements username/password authentication against the
// users store.
package local

import (
	"context"
	"errors"
	"fmt"

	"github.com/authd/authd/pkg/authenticator"
	"github.com/authd/authd/pkg/model"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server/store"
)

// Authenticator validates username/password credentials.
type Authenticator struct {
	users store.UsersStore
}

// New creates a password authenticator over the users store.
func New(users store.UsersStore) *Authenticator {
	return &Authenticator{users: users}
}

// Name returns the authenticator name
func (a *Authenticator) Name() string {
	return "local"
}

// Authenticate validates the credentials and returns the matching user.
// Unknown user, wrong password, and deactivated account all return
// ErrInvalidCredentials; unknown users still cost one bcrypt comparison
// so response timing is uniform.
func (a *Authenticator) Authenticate(ctx context.Context, input authenticator.Input) (*model.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, authenticator.ErrInvalidCredentials
	}

	user, err := a.users.UserByUsername(input.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			password.VerifyDummy(input.Password)
			return nil, authenticator.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !password.Verify(input.Password, user.HashedPassword) {
		return nil, authenticator.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, authenticator.ErrInvalidCredentials
	}

	return user, nil
}
