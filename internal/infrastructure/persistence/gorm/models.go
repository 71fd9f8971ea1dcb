// Package gorm provides GORM-based repository implementations
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the users table
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// TableName specifies the table name
func (UserModel) TableName() string {
	return "users"
}

// KeyValueModel is one entry of the generic key-value table backing saved
// recipe lists
type KeyValueModel struct {
	Key       string `gorm:"column:entry_key;type:varchar(255);primaryKey"`
	Value     string `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name
func (KeyValueModel) TableName() string {
	return "kv_entries"
}

// AllModels lists every model for AutoMigrate
func AllModels() []interface{} {
	return []interface{}{&UserModel{}, &KeyValueModel{}}
}
