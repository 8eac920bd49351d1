package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/storage"
)

// ScanRepo implements storage.HistoryRepository using PostgreSQL.
type ScanRepo struct {
	db       *DB
	maxLimit int
}

var (
	_ storage.HistoryRepository = (*ScanRepo)(nil)
	_ storage.Pruner            = (*ScanRepo)(nil)
)

// NewScanRepo creates a new PostgreSQL scan history repository.
func NewScanRepo(db *DB, maxLimit int) *ScanRepo {
	return &ScanRepo{db: db, maxLimit: maxLimit}
}

type scanRow struct {
	ID        string    `db:"id"`
	Token     string    `db:"token"`
	Score     int       `db:"score"`
	Verdict   string    `db:"verdict"`
	Summary   string    `db:"summary"`
	Report    string    `db:"report"`
	ScannedAt time.Time `db:"scanned_at"`
}

func (r scanRow) record() *domain.ScanRecord {
	return &domain.ScanRecord{
		ID:        r.ID,
		Token:     r.Token,
		Score:     r.Score,
		Verdict:   domain.Verdict(r.Verdict),
		Summary:   r.Summary,
		Report:    json.RawMessage(r.Report),
		ScannedAt: r.ScannedAt,
	}
}

// Save inserts a scan record.
func (r *ScanRepo) Save(ctx context.Context, rec *domain.ScanRecord) error {
	report := string(rec.Report)
	if report == "" {
		report = "{}"
	}

	query := `
		INSERT INTO scans (id, token, score, verdict, summary, report, scanned_at)
		VALUES (:id, :token, :score, :verdict, :summary, CAST(:report AS JSONB), :scanned_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, scanRow{
		ID:        rec.ID,
		Token:     rec.Token,
		Score:     rec.Score,
		Verdict:   string(rec.Verdict),
		Summary:   rec.Summary,
		Report:    report,
		ScannedAt: rec.ScannedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}
	return nil
}

// Recent returns the latest scans across all tokens.
func (r *ScanRepo) Recent(ctx context.Context, limit int) ([]*domain.ScanRecord, error) {
	query := `
		SELECT id, token, score, verdict, summary, report::text AS report, scanned_at
		FROM scans
		ORDER BY scanned_at DESC
		LIMIT $1
	`
	return r.selectRecords(ctx, query, storage.NormalizeLimit(limit, r.maxLimit))
}

// ByToken returns the latest scans of one token.
func (r *ScanRepo) ByToken(ctx context.Context, token string, limit int) ([]*domain.ScanRecord, error) {
	query := `
		SELECT id, token, score, verdict, summary, report::text AS report, scanned_at
		FROM scans
		WHERE lower(token) = lower($1)
		ORDER BY scanned_at DESC
		LIMIT $2
	`
	return r.selectRecords(ctx, query, token, storage.NormalizeLimit(limit, r.maxLimit))
}

// DeleteOlderThan removes scans recorded before cutoff.
func (r *ScanRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM scans WHERE scanned_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scans: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying connection pool.
func (r *ScanRepo) Close() error {
	return r.db.Close()
}

func (r *ScanRepo) selectRecords(ctx context.Context, query string, args ...any) ([]*domain.ScanRecord, error) {
	var rows []scanRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}

	out := make([]*domain.ScanRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}
