package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	// DefaultHistoryLimit applies when the caller passes no (or a
	// non-positive) limit.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps how many records a single history call returns.
	MaxHistoryLimit = 100
)

// Insert writes one record inside a transaction and fills in the
// store-assigned id and timestamps. A failure rolls back, never leaving a
// partial row.
func (s *Store) Insert(ctx context.Context, rec *TextRequest) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
	return errors.Wrap(err, "insert record")
}

// History returns up to limit records, newest first. Non-positive limits
// fall back to DefaultHistoryLimit; limits above MaxHistoryLimit are capped.
func (s *Store) History(ctx context.Context, limit int) ([]TextRequest, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	var records []TextRequest
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "list history")
	}
	return records, nil
}

// ComputeStats groups all persisted records by service with per-status
// counts, plus the grand total.
func (s *Store) ComputeStats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := s.db.WithContext(ctx).
		Model(&TextRequest{}).
		Select(`service_used,
			COUNT(*) AS count,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) AS completed,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
			COUNT(CASE WHEN status = 'error' THEN 1 END) AS errors`).
		Group("service_used").
		Order("count DESC").
		Scan(&stats.ByService).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "group by service")
	}
	if stats.ByService == nil {
		stats.ByService = []ServiceStats{}
	}

	err = s.db.WithContext(ctx).Model(&TextRequest{}).Count(&stats.TotalRequests).Error
	if err != nil {
		return Stats{}, errors.Wrap(err, "count total")
	}

	return stats, nil
}
