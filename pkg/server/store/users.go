package store

import (
	"errors"

	"github.com/authd/authd/pkg/model"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the username or email is taken.
	ErrDuplicateUser = errors.New("user with this username or email already exists")
)

// UsersStore provides user persistence operations
type UsersStore interface {
	// CreateUser persists a new user. Returns ErrDuplicateUser when the
	// username or email is already taken.
	CreateUser(user *model.User) error

	// UserByUsername fetches a user by username. Returns ErrUserNotFound
	// when no such user exists.
	UserByUsername(username string) (*model.User, error)

	// ListUsers returns users ordered by username
	ListUsers(limit, offset int) ([]model.User, error)

	// CountUsers returns the total number of users
	CountUsers() (int64, error)

	// UpdatePassword replaces a user's password hash
	UpdatePassword(username, hashedPassword string) error

	// SetActive enables or disables a user account
	SetActive(username string, active bool) error
}
