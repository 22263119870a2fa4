// Package store is the client-side durable key-value storage: the moral
// equivalent of the browser's localStorage, backed by a local sqlite file.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// The three stable keys the storefront persists under.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart:v1"
)

// Store is durable string storage surviving restarts. A missing key is not
// an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
	Delete(key string) error
}

type localValue struct {
	Key       string `gorm:"primaryKey;size:64;not null"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (localValue) TableName() string { return "local_values" }

// DB is the sqlite-backed Store.
type DB struct {
	db *gorm.DB
}

func Open(path string) (*DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := db.AutoMigrate(&localValue{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &DB{db: db}, nil
}

func (s *DB) Get(key string) (string, bool, error) {
	var v localValue
	err := s.db.Where("key = ?", key).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v.Value, true, nil
}

func (s *DB) Put(key, value string) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": time.Now(),
		}),
	}).Create(&localValue{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *DB) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&localValue{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
