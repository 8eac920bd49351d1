package config

import (
	"time"

	redisclient "github.com/vietddude/cryptoshield/internal/infra/redis"
	"github.com/vietddude/cryptoshield/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Chain      ChainConfig      `yaml:"chain"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Lockers    []LockerConfig   `yaml:"lockers"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port      int     `yaml:"port"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second per client IP, 0 = off
	Burst     int     `yaml:"burst"`
}

// ChainConfig holds the node endpoints and DEX contracts.
type ChainConfig struct {
	PublicRPC  string        `yaml:"public_rpc"`
	PrivateRPC string        `yaml:"private_rpc"` // LP lock lookups; empty disables them
	Timeout    time.Duration `yaml:"timeout"`
	DailyQuota int           `yaml:"daily_quota"` // per endpoint, 0 = unlimited
	Router     string        `yaml:"router"`
	Factory    string        `yaml:"factory"`
	BaseToken  string        `yaml:"base_token"`
}

// ThresholdsConfig holds the risk thresholds, in whole token units.
type ThresholdsConfig struct {
	ProbeAmount float64 `yaml:"probe_amount"` // base token sent through the router quote, 0 = default
	// Unset fields take the defaults; an explicit 0 is honoured.
	MaxLossPercent  *float64 `yaml:"max_loss_percent"`  // round-trip loss still considered passing
	MinBaseReserve  *float64 `yaml:"min_base_reserve"`  // base token in the pool
	MinTokenReserve *float64 `yaml:"min_token_reserve"` // scanned token in the pool
}

// LockerConfig describes one LP lock vault.
type LockerConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Kind    string `yaml:"kind"` // pinklock, uncx, balance
}

// SummarizerConfig holds the risk summary model settings.
type SummarizerConfig struct {
	APIKey  string        `yaml:"api_key"` // empty disables the summarizer
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig selects the scan history backend.
type StorageConfig struct {
	Type    string `yaml:"type"` // memory, postgres, redis
	History int    `yaml:"history"`
	// Retention prunes older records on backends that support it, 0 keeps everything
	Retention time.Duration      `yaml:"retention"`
	Database  postgres.Config    `yaml:"database"`
	Redis     redisclient.Config `yaml:"redis"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
