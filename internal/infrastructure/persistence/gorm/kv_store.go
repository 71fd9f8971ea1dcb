package gorm

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore persists key-value entries in the kv_entries table
type KeyValueStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// NewKeyValueStore creates a SQL-backed key-value store
func NewKeyValueStore(db *gorm.DB, logger *zap.Logger) *KeyValueStore {
	return &KeyValueStore{db: db, logger: logger.Named("kv-sql")}
}

// Get returns the value under key
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	var model KeyValueModel
	err := s.db.WithContext(ctx).First(&model, "entry_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return model.Value, true, nil
}

// Set upserts the value under key
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	model := KeyValueModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		s.logger.Error("Failed to write entry", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Remove deletes key; removing a missing key is not an error
func (s *KeyValueStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&KeyValueModel{}, "entry_key = ?", key).Error
}
