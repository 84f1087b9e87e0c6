package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the database handle with the operations the gateway needs.
// gorm pools connections underneath; each call scopes its own connection to
// the request context.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	d, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := d.AutoMigrate(&TextRequest{}); err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}
	return &Store{db: d}, nil
}

// NewStore wraps a pre-configured *gorm.DB (useful for testing).
func NewStore(d *gorm.DB) *Store {
	return &Store{db: d}
}

// Ping probes connectivity with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get connection")
	}
	return sqlDB.PingContext(ctx)
}
