package gorm

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/authd/authd/pkg/model"
	"github.com/authd/authd/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser persists a new user, refusing duplicate usernames or emails.
func (s *UsersStore) CreateUser(user *model.User) error {
	var existing model.User
	err := s.db.Where("username = ? OR email = ?", user.Username, user.Email).
		First(&existing).Error
	if err == nil {
		return store.ErrDuplicateUser
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		// A concurrent create can slip past the pre-check and hit the
		// unique constraint instead.
		if isUniqueViolation(err) {
			return store.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// UserByUsername fetches a user by username.
func (s *UsersStore) UserByUsername(username string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// ListUsers returns users ordered by username.
func (s *UsersStore) ListUsers(limit, offset int) ([]model.User, error) {
	var users []model.User
	query := s.db.Order("username")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountUsers returns the total number of users.
func (s *UsersStore) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// UpdatePassword replaces a user's password hash.
func (s *UsersStore) UpdatePassword(username, hashedPassword string) error {
	tx := s.db.Model(&model.User{}).
		Where("username = ?", username).
		Update("hashed_password", hashedPassword)
	if tx.Error != nil {
		return fmt.Errorf("failed to update password: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// SetActive enables or disables a user account.
func (s *UsersStore) SetActive(username string, active bool) error {
	tx := s.db.Model(&model.User{}).
		Where("username = ?", username).
		Update("is_active", active)
	if tx.Error != nil {
		return fmt.Errorf("failed to update user: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrUserNotFound
	}
	return nil
}
