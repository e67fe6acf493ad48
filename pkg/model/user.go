package model

import "time"

// User represents an account holder. HashedPassword always contains a
// bcrypt hash; the plaintext password is never persisted.
type User struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Username       string    `gorm:"column:username;uniqueIndex"`
	Email          string    `gorm:"column:email;uniqueIndex"`
	HashedPassword string    `gorm:"column:hashed_password"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	IsAdmin        bool      `gorm:"column:is_admin;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
