// Package scanner is the entry point the CLI and HTTP server share: it validates
// input, runs the assessment, attaches a summary and records the scan.
package scanner

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/storage"
	"github.com/vietddude/cryptoshield/internal/metrics"
	"github.com/vietddude/cryptoshield/internal/summary"
)

// Assessor runs the checks for one token. *assessment.Engine satisfies it.
type Assessor interface {
	Assess(ctx context.Context, token domain.TokenAddress) domain.AssessmentResult
}

// Report is a finished scan as shown to operators.
type Report struct {
	domain.AssessmentResult
	Summary string `json:"summary"`
}

type Service struct {
	assessor  Assessor
	explainer summary.Explainer
	history   storage.HistoryRepository
	log       *slog.Logger
}

// New creates the scan service. history may be nil, in which case scans are
// not recorded.
func New(assessor Assessor, explainer summary.Explainer, history storage.HistoryRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		assessor:  assessor,
		explainer: explainer,
		history:   history,
		log:       logger.With("component", "scanner"),
	}
}

// Scan validates raw and assesses it. The only error returned wraps
// domain.ErrInvalidInput; chain problems live inside the report.
func (s *Service) Scan(ctx context.Context, raw string) (*Report, error) {
	token, err := domain.ParseTokenAddress(raw)
	if err != nil {
		metrics.InvalidInputs.Inc()
		return nil, err
	}

	start := time.Now()
	result := s.assessor.Assess(ctx, token)
	elapsed := time.Since(start)

	metrics.ScanDuration.Observe(elapsed.Seconds())
	metrics.ScansTotal.WithLabelValues(string(result.Verdict)).Inc()
	recordFailure(domain.CheckHoneypot, result.Honeypot.Failure)
	recordFailure(domain.CheckRugpull, result.Rugpull.Failure)
	recordFailure(domain.CheckLiquidity, result.Liquidity.Failure)
	for _, e := range result.LPLock {
		if !e.OK() {
			metrics.CheckFailures.WithLabelValues(string(domain.CheckLPLock), "locker").Inc()
		}
	}

	report := &Report{AssessmentResult: result}
	if s.explainer != nil {
		report.Summary = s.explainer.Explain(ctx, summary.InputFrom(result))
	}

	s.log.Info("scan complete",
		"token", token.String(),
		"score", result.Score,
		"verdict", result.Verdict,
		"duration", elapsed,
	)

	s.record(ctx, report)
	return report, nil
}

// History returns the latest recorded scans.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.ScanRecord, error) {
	if s.history == nil {
		return []*domain.ScanRecord{}, nil
	}
	return s.history.Recent(ctx, limit)
}

// TokenHistory returns the latest recorded scans of one token.
func (s *Service) TokenHistory(ctx context.Context, raw string, limit int) ([]*domain.ScanRecord, error) {
	token, err := domain.ParseTokenAddress(raw)
	if err != nil {
		return nil, err
	}
	if s.history == nil {
		return []*domain.ScanRecord{}, nil
	}
	return s.history.ByToken(ctx, token.String(), limit)
}

func (s *Service) record(ctx context.Context, report *Report) {
	if s.history == nil {
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		s.log.Error("failed to encode scan record", "error", err)
		metrics.HistoryWriteErrors.Inc()
		return
	}
	rec := &domain.ScanRecord{
		ID:        uuid.NewString(),
		Token:     report.Token.String(),
		Score:     report.Score,
		Verdict:   report.Verdict,
		Summary:   report.Summary,
		Report:    body,
		ScannedAt: report.AssessedAt,
	}
	// Cancellation of the request must not drop the audit entry.
	if err := s.history.Save(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Error("failed to save scan record", "token", rec.Token, "error", err)
		metrics.HistoryWriteErrors.Inc()
	}
}

func recordFailure(check domain.CheckName, f *domain.Failure) {
	if f != nil {
		metrics.CheckFailures.WithLabelValues(string(check), string(f.Kind)).Inc()
	}
}
