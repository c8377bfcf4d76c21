// Package postgres stores documents in a single PostgreSQL table
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loop/pkg/logger"
	"loop/services/loop-service/domain/repository"
)

// Entry is one key and its JSON document
type Entry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name regardless of naming strategy
func (Entry) TableName() string {
	return "kv_entries"
}

type keyValueRepository struct {
	db     *gorm.DB
	logger logger.LoggerInterface
}

// NewKeyValueRepository returns a substrate backed by the kv_entries table.
// Run Migrate(&Entry{}) once before use.
func NewKeyValueRepository(db *gorm.DB, logger logger.LoggerInterface) repository.KeyValue {
	return &keyValueRepository{
		db:     db.Session(&gorm.Session{SkipDefaultTransaction: true}),
		logger: logger,
	}
}

func (r *keyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to read entry", "key", key, "error", err)
		return "", false, fmt.Errorf("failed to read entry %q: %w", key, err)
	}
	return entry.Value, true, nil
}

func (r *keyValueRepository) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to write entry", "key", key, "error", err)
		return fmt.Errorf("failed to write entry %q: %w", key, err)
	}
	r.logger.DebugContext(ctx, "Entry written", "key", key, "bytes", len(value))
	return nil
}

func (r *keyValueRepository) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&Entry{Key: key, Value: value})
	if result.Error != nil {
		r.logger.ErrorContext(ctx, "Failed to claim entry", "key", key, "error", result.Error)
		return false, fmt.Errorf("failed to claim entry %q: %w", key, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *keyValueRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete entry", "key", key, "error", err)
		return fmt.Errorf("failed to delete entry %q: %w", key, err)
	}
	return nil
}
