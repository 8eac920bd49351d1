package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"

	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

// BSC mainnet defaults.
const (
	DefaultPublicRPC = "https://bsc-dataseed.binance.org/"
	DefaultRouter    = "0x10ED43C718714eb63d5aA57B78B54704E256024E" // PancakeSwap v2
	DefaultFactory   = "0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"
	DefaultBaseToken = "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c" // WBNB
	DefaultModel     = "gpt-4o-mini"
)

// Environment variables that override file settings.
const (
	EnvPrivateRPC = "CHAINSTACK_ACCESS_KEY"
	EnvOpenAIKey  = "OPENAI_API_KEY"
	EnvPublicRPC  = "SHIELD_PUBLIC_RPC"
)

// Load reads configuration from a YAML file. An empty path, or a missing
// file, yields the built-in defaults. Environment overrides are applied last.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			// Expand environment variables in the YAML content
			expandedData := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv(EnvPublicRPC); v != "" {
		cfg.Chain.PublicRPC = v
	}
	if v := os.Getenv(EnvPrivateRPC); v != "" {
		cfg.Chain.PrivateRPC = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		cfg.Summarizer.APIKey = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.Burst == 0 {
		cfg.Server.Burst = int(cfg.Server.RateLimit) + 1
	}

	if cfg.Chain.PublicRPC == "" {
		cfg.Chain.PublicRPC = DefaultPublicRPC
	}
	if cfg.Chain.Timeout == 0 {
		cfg.Chain.Timeout = 15 * time.Second
	}
	if cfg.Chain.Router == "" {
		cfg.Chain.Router = DefaultRouter
	}
	if cfg.Chain.Factory == "" {
		cfg.Chain.Factory = DefaultFactory
	}
	if cfg.Chain.BaseToken == "" {
		cfg.Chain.BaseToken = DefaultBaseToken
	}

	if cfg.Thresholds.ProbeAmount == 0 {
		cfg.Thresholds.ProbeAmount = 0.01
	}
	setDefault(&cfg.Thresholds.MaxLossPercent, 40)
	setDefault(&cfg.Thresholds.MinBaseReserve, 1)
	setDefault(&cfg.Thresholds.MinTokenReserve, 1000)

	if len(cfg.Lockers) == 0 {
		for _, l := range evm.DefaultLockers() {
			cfg.Lockers = append(cfg.Lockers, LockerConfig{Name: l.Name, Address: l.Address.Hex(), Kind: string(l.Kind)})
		}
	}

	if cfg.Summarizer.Model == "" {
		cfg.Summarizer.Model = DefaultModel
	}
	if cfg.Summarizer.Timeout == 0 {
		cfg.Summarizer.Timeout = 30 * time.Second
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Storage.History == 0 {
		cfg.Storage.History = 500
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func setDefault(v **float64, def float64) {
	if *v == nil {
		*v = &def
	}
}

// Validate checks addresses and enumerations.
func (c *AppConfig) Validate() error {
	for name, addr := range map[string]string{
		"chain.router":     c.Chain.Router,
		"chain.factory":    c.Chain.Factory,
		"chain.base_token": c.Chain.BaseToken,
	} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q", name, addr)
		}
	}

	for i, l := range c.Lockers {
		if l.Name == "" {
			return fmt.Errorf("lockers[%d]: name is required", i)
		}
		if !common.IsHexAddress(l.Address) {
			return fmt.Errorf("lockers[%d]: invalid address %q", i, l.Address)
		}
		if _, err := evm.ParseLockerKind(l.Kind); err != nil {
			return fmt.Errorf("lockers[%d]: %w", i, err)
		}
	}

	if c.Thresholds.ProbeAmount < 0 {
		return fmt.Errorf("thresholds.probe_amount must not be negative")
	}
	for name, v := range map[string]*float64{
		"max_loss_percent":  c.Thresholds.MaxLossPercent,
		"min_base_reserve":  c.Thresholds.MinBaseReserve,
		"min_token_reserve": c.Thresholds.MinTokenReserve,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("thresholds.%s must not be negative", name)
		}
	}

	switch strings.ToLower(c.Storage.Type) {
	case "memory", "postgres", "redis":
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Storage.Type == "postgres" && c.Storage.Database.URL == "" {
		return fmt.Errorf("storage.database.url is required for postgres")
	}
	if c.Storage.Type == "redis" && c.Storage.Redis.URL == "" {
		return fmt.Errorf("storage.redis.url is required for redis")
	}
	return nil
}

// EVMLockers converts the configured vaults for the gateway.
func (c *AppConfig) EVMLockers() []evm.Locker {
	lockers := make([]evm.Locker, 0, len(c.Lockers))
	for _, l := range c.Lockers {
		kind, _ := evm.ParseLockerKind(l.Kind)
		lockers = append(lockers, evm.Locker{
			Name:    l.Name,
			Address: common.HexToAddress(l.Address),
			Kind:    kind,
		})
	}
	return lockers
}
