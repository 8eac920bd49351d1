package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/vietddude/cryptoshield/internal/assessment"
	"github.com/vietddude/cryptoshield/internal/core/config"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
	redisclient "github.com/vietddude/cryptoshield/internal/infra/redis"
	"github.com/vietddude/cryptoshield/internal/infra/rpc"
	"github.com/vietddude/cryptoshield/internal/infra/rpc/budget"
	"github.com/vietddude/cryptoshield/internal/infra/rpc/provider"
	"github.com/vietddude/cryptoshield/internal/infra/storage"
	"github.com/vietddude/cryptoshield/internal/infra/storage/memory"
	"github.com/vietddude/cryptoshield/internal/infra/storage/postgres"
	"github.com/vietddude/cryptoshield/internal/scanner"
	"github.com/vietddude/cryptoshield/internal/summary"
)

// app holds the wired components shared by the subcommands.
type app struct {
	scanner   *scanner.Service
	endpoints []*rpc.Client
	history   storage.HistoryRepository
}

func newApp(ctx context.Context, cfg *config.AppConfig) (*app, error) {
	logger := slog.Default()
	tracker := budget.NewBudgetTracker(cfg.Chain.DailyQuota)

	public := rpc.NewClient(
		provider.NewHTTPProvider("public", cfg.Chain.PublicRPC, cfg.Chain.Timeout), tracker, logger)
	a := &app{endpoints: []*rpc.Client{public}}

	gwCfg := evm.Config{
		Router:  common.HexToAddress(cfg.Chain.Router),
		Factory: common.HexToAddress(cfg.Chain.Factory),
	}

	opts := assessment.Options{
		BaseToken:  common.HexToAddress(cfg.Chain.BaseToken),
		Thresholds: thresholds(cfg.Thresholds),
		Lockers:    cfg.EVMLockers(),
		Logger:     logger,
	}
	if cfg.Chain.PrivateRPC != "" {
		private := rpc.NewClient(
			provider.NewHTTPProvider("private", cfg.Chain.PrivateRPC, cfg.Chain.Timeout), tracker, logger)
		a.endpoints = append(a.endpoints, private)
		opts.Locks = evm.NewGateway(private, gwCfg, logger)
	} else {
		slog.Warn("No private RPC endpoint configured, LP lock lookups disabled", "env", config.EnvPrivateRPC)
	}

	engine := assessment.NewEngine(evm.NewGateway(public, gwCfg, logger), opts)

	explainer := summary.New(summary.Config{
		APIKey:  cfg.Summarizer.APIKey,
		Model:   cfg.Summarizer.Model,
		BaseURL: cfg.Summarizer.BaseURL,
		Timeout: cfg.Summarizer.Timeout,
	}, logger)
	if !explainer.Enabled() {
		slog.Warn("No summarizer API key configured, summaries disabled", "env", config.EnvOpenAIKey)
	}

	history, err := openHistory(ctx, cfg.Storage)
	if err != nil {
		a.close()
		return nil, err
	}
	a.history = history

	a.scanner = scanner.New(engine, explainer, history, logger)
	return a, nil
}

func (a *app) close() {
	for _, c := range a.endpoints {
		_ = c.Close()
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Error("Failed to close history store", "error", err)
		}
	}
}

func openHistory(ctx context.Context, cfg config.StorageConfig) (storage.HistoryRepository, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory":
		return memory.NewHistoryStore(cfg.History), nil

	case "postgres":
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return postgres.NewScanRepo(db, cfg.History), nil

	case "redis":
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redisclient.NewScanRepo(client, cfg.History), nil
	}
	return nil, errors.New("unknown storage type: " + cfg.Type)
}

func thresholds(t config.ThresholdsConfig) assessment.Thresholds {
	d := assessment.DefaultThresholds()
	return assessment.Thresholds{
		ProbeAmount:     decimal.NewFromFloat(t.ProbeAmount),
		MaxLossPercent:  fromConfig(t.MaxLossPercent, d.MaxLossPercent),
		MinBaseReserve:  fromConfig(t.MinBaseReserve, d.MinBaseReserve),
		MinTokenReserve: fromConfig(t.MinTokenReserve, d.MinTokenReserve),
	}
}

func fromConfig(v *float64, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return decimal.NewFromFloat(*v)
}
