package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestStore creates an in-memory SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := d.AutoMigrate(&TextRequest{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewStore(d)
}
