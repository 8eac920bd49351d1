package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/storage"
)

// ScanRepo implements storage.HistoryRepository with capped Redis lists.
type ScanRepo struct {
	client   *Client
	capacity int
}

var _ storage.HistoryRepository = (*ScanRepo)(nil)

// NewScanRepo creates a repository keeping at most capacity records per list.
func NewScanRepo(client *Client, capacity int) *ScanRepo {
	if capacity <= 0 {
		capacity = 500
	}
	return &ScanRepo{client: client, capacity: capacity}
}

// Key helpers
func recentKey() string {
	return "scans:recent"
}

func tokenKey(token string) string {
	return fmt.Sprintf("scans:token:%s", strings.ToLower(token))
}

// Save pushes the record onto the global and per-token lists.
func (r *ScanRepo) Save(ctx context.Context, rec *domain.ScanRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal scan: %w", err)
	}

	_, err = r.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range []string{recentKey(), tokenKey(rec.Token)} {
			pipe.LPush(ctx, key, data)
			pipe.LTrim(ctx, key, 0, int64(r.capacity-1))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

// Recent returns the latest scans across all tokens.
func (r *ScanRepo) Recent(ctx context.Context, limit int) ([]*domain.ScanRecord, error) {
	return r.read(ctx, recentKey(), limit)
}

// ByToken returns the latest scans of one token.
func (r *ScanRepo) ByToken(ctx context.Context, token string, limit int) ([]*domain.ScanRecord, error) {
	return r.read(ctx, tokenKey(token), limit)
}

// Close closes the Redis connection.
func (r *ScanRepo) Close() error {
	return r.client.Close()
}

func (r *ScanRepo) read(ctx context.Context, key string, limit int) ([]*domain.ScanRecord, error) {
	limit = storage.NormalizeLimit(limit, r.capacity)

	items, err := r.client.rdb.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange failed: %w", err)
	}

	out := make([]*domain.ScanRecord, 0, len(items))
	for _, item := range items {
		var rec domain.ScanRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scan: %w", err)
		}
		out = append(out, &rec)
	}
	return out, nil
}
