package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/storage"
)

// HistoryStore keeps the most recent scans in process memory.
type HistoryStore struct {
	mu       sync.RWMutex
	records  []*domain.ScanRecord // oldest first
	capacity int
}

var (
	_ storage.HistoryRepository = (*HistoryStore)(nil)
	_ storage.Pruner            = (*HistoryStore)(nil)
)

// NewHistoryStore creates a store holding at most capacity records.
func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = 500
	}
	return &HistoryStore{capacity: capacity}
}

func (s *HistoryStore) Save(ctx context.Context, rec *domain.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records = append(s.records, &cp)
	if over := len(s.records) - s.capacity; over > 0 {
		s.records = append([]*domain.ScanRecord(nil), s.records[over:]...)
	}
	return nil
}

func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]*domain.ScanRecord, error) {
	return s.collect(limit, func(*domain.ScanRecord) bool { return true }), nil
}

func (s *HistoryStore) ByToken(ctx context.Context, token string, limit int) ([]*domain.ScanRecord, error) {
	return s.collect(limit, func(r *domain.ScanRecord) bool {
		return strings.EqualFold(r.Token, token)
	}), nil
}

func (s *HistoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, r := range s.records {
		if !r.ScannedAt.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	removed := int64(len(s.records) - len(kept))
	clear(s.records[len(kept):])
	s.records = kept
	return removed, nil
}

func (s *HistoryStore) Close() error { return nil }

func (s *HistoryStore) collect(limit int, match func(*domain.ScanRecord) bool) []*domain.ScanRecord {
	limit = storage.NormalizeLimit(limit, s.capacity)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ScanRecord, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if match(s.records[i]) {
			cp := *s.records[i]
			out = append(out, &cp)
		}
	}
	return out
}
