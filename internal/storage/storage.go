// Package storage provides a sync journal using GORM and SQLite. Each
// manifest reconciliation that touches disk is recorded so operators
// can audit what a sync run changed and when.
package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors following Dave Cheney's principle: define errors as values
var (
	ErrNilRecord = errors.New("sync record cannot be nil")
	ErrNotFound  = errors.New("sync record not found")
)

// SyncRecord is one manifest reconciliation outcome.
type SyncRecord struct {
	ID uint `gorm:"primaryKey"`

	Runtime     string `gorm:"not null;index:idx_runtime_version"`
	Version     string `gorm:"not null;index:idx_runtime_version"`
	Filename    string `gorm:"not null"`
	Arch        string `gorm:"not null;index"`
	Platform    string
	DownloadURL string

	// Action is what the reconciliation did: added, skipped, or created.
	Action string `gorm:"not null;index"`

	CreatedAt time.Time
}

// Store defines the interface for sync journal operations
type Store interface {
	Close() error
	RecordSync(*SyncRecord) error
	ListAll() ([]*SyncRecord, error)
	ListByRuntime(runtime string) ([]*SyncRecord, error)
	ListByVersion(runtime, version string) ([]*SyncRecord, error)
	CountByAction(action string) (int64, error)
}

// DB wraps gorm.DB with journal operations
type DB struct {
	db *gorm.DB
}

// Config holds database configuration
type Config struct {
	DatabasePath string
	LogLevel     string // silent, error, warn, info
}

// InitDB initializes the database connection and runs migrations
func InitDB(cfg Config) (*DB, error) {
	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&SyncRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// RecordSync appends one reconciliation outcome to the journal
func (d *DB) RecordSync(rec *SyncRecord) error {
	if rec == nil {
		return ErrNilRecord
	}
	if err := d.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record sync: %w", err)
	}
	return nil
}

// ListAll returns every journal entry, newest first
func (d *DB) ListAll() ([]*SyncRecord, error) {
	var records []*SyncRecord
	if err := d.db.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync records: %w", err)
	}
	return records, nil
}

// ListByRuntime returns the journal entries for one runtime
func (d *DB) ListByRuntime(runtime string) ([]*SyncRecord, error) {
	var records []*SyncRecord
	if err := d.db.Where("runtime = ?", runtime).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync records for %s: %w", runtime, err)
	}
	return records, nil
}

// ListByVersion returns the journal entries for one runtime version
func (d *DB) ListByVersion(runtime, version string) ([]*SyncRecord, error) {
	var records []*SyncRecord
	err := d.db.Where("runtime = ? AND version = ?", runtime, version).
		Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sync records for %s %s: %w", runtime, version, err)
	}
	return records, nil
}

// CountByAction counts journal entries with the given action
func (d *DB) CountByAction(action string) (int64, error) {
	var n int64
	if err := d.db.Model(&SyncRecord{}).Where("action = ?", action).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count sync records: %w", err)
	}
	return n, nil
}
