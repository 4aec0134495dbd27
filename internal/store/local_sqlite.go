package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type slotRecord struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (slotRecord) TableName() string { return "slots" }

// SQLiteLocal keeps slots in a single SQLite table.
type SQLiteLocal struct {
	db *gorm.DB
}

// NewSQLiteLocal opens (or creates) the database at path and migrates the slots table.
func NewSQLiteLocal(path string) (*SQLiteLocal, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate slots: %w", err)
	}
	return &SQLiteLocal{db: db}, nil
}

// Get reads a slot.
func (s *SQLiteLocal) Get(ctx context.Context, key string) ([]byte, error) {
	var rec slotRecord
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read slot %s: %w", key, err)
	}
	return rec.Value, nil
}

// Put upserts a slot.
func (s *SQLiteLocal) Put(ctx context.Context, key string, value []byte) error {
	rec := slotRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store: write slot %s: %w", key, err)
	}
	return nil
}

// Delete removes a slot.
func (s *SQLiteLocal) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&slotRecord{}).Error; err != nil {
		return fmt.Errorf("store: delete slot %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteLocal) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
