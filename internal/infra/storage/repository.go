// Package storage defines the scan history persistence boundary.
package storage

import (
	"context"
	"time"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// DefaultLimit applies when a caller asks for a non-positive number of records.
const DefaultLimit = 20

// HistoryRepository stores finished scans, newest first.
type HistoryRepository interface {
	// Save appends a scan record
	Save(ctx context.Context, rec *domain.ScanRecord) error

	// Recent returns up to limit of the latest records across all tokens
	Recent(ctx context.Context, limit int) ([]*domain.ScanRecord, error)

	// ByToken returns up to limit of the latest records for one token
	ByToken(ctx context.Context, token string, limit int) ([]*domain.ScanRecord, error)

	// Close releases backend resources
	Close() error
}

// Pruner is implemented by backends whose history grows without bound.
type Pruner interface {
	// DeleteOlderThan removes records scanned before cutoff and reports how many went
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NormalizeLimit clamps limit to (0, ceiling].
func NormalizeLimit(limit, ceiling int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if ceiling > 0 && limit > ceiling {
		limit = ceiling
	}
	return limit
}
