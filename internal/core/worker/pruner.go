package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/cryptoshield/internal/infra/storage"
)

// Pruner deletes scan history older than the retention period.
type Pruner struct {
	store     storage.Pruner
	retention time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// NewPruner creates a new Pruner worker.
func NewPruner(store storage.Pruner, retention time.Duration, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:     store,
		retention: retention,
		log:       logger.With("component", "pruner"),
		now:       time.Now,
	}
}

// Start runs the pruner loop until ctx is done.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	// Check every tenth of the retention period, between a minute and an hour
	interval := min(p.retention/10, 1*time.Hour)
	interval = max(interval, 1*time.Minute)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	cutoff := p.now().Add(-p.retention)

	removed, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.log.Error("failed to prune scan history", "cutoff", cutoff, "error", err)
		return
	}
	if removed > 0 {
		p.log.Info("pruned scan history", "removed", removed, "cutoff", cutoff)
	}
}
