// Package rpc provides the JSON-RPC client used to reach chain nodes.
//
//   - provider/ - transport implementations (HTTPProvider, monitoring)
//   - budget/   - daily call quota tracking
//
// A Client wraps a single provider. It makes exactly one attempt per call;
// callers decide what a failure means for them.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/cryptoshield/internal/infra/rpc/budget"
	"github.com/vietddude/cryptoshield/internal/infra/rpc/provider"
)

// ErrBudgetExhausted is returned when the endpoint's daily quota is used up.
var ErrBudgetExhausted = errors.New("rpc call budget exhausted")

// Client is the high-level interface for making RPC calls.
type Client struct {
	provider provider.Provider
	budget   budget.BudgetTracker
	logger   *slog.Logger
}

// Stats is a snapshot of endpoint health and quota usage.
type Stats struct {
	Provider string                `json:"provider"`
	Health   provider.HealthStatus `json:"health"`
	Usage    budget.UsageStats     `json:"usage"`
}

// NewClient creates a new RPC client. A nil budget means unlimited calls.
func NewClient(p provider.Provider, b budget.BudgetTracker, logger *slog.Logger) *Client {
	if b == nil {
		b = budget.NewBudgetTracker(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		provider: p,
		budget:   b,
		logger:   logger.With("provider", p.GetName()),
	}
}

// Call makes a single RPC call within the endpoint's budget.
func (c *Client) Call(ctx context.Context, method string, params []any) (any, error) {
	name := c.provider.GetName()
	if !c.budget.CanMakeCall(name) {
		usage := c.budget.GetUsage(name)
		return nil, fmt.Errorf("%w: %d/%d calls, resets at %s",
			ErrBudgetExhausted, usage.TotalCalls, usage.DailyLimit, usage.NextResetAt.Format("15:04:05"))
	}

	c.budget.RecordCall(name, method)
	result, err := c.provider.Call(ctx, method, params)
	if err != nil {
		c.logger.Debug("rpc call failed", "method", method, "error", err)
		return nil, err
	}
	return result, nil
}

// Name returns the underlying provider's name.
func (c *Client) Name() string {
	return c.provider.GetName()
}

// Stats returns health and usage for the underlying provider.
func (c *Client) Stats() Stats {
	name := c.provider.GetName()
	return Stats{
		Provider: name,
		Health:   c.provider.GetHealth(),
		Usage:    c.budget.GetUsage(name),
	}
}

// Close releases the provider's resources.
func (c *Client) Close() error {
	return c.provider.Close()
}
