// Package assessment runs the token risk checks and reduces them to a score
// and verdict.
package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

// Gateway is the chain access the scored checks need. *evm.Gateway satisfies it.
type Gateway interface {
	QuoteReader
	TokenReader
	PairReader
}

// Options configures an Engine.
type Options struct {
	BaseToken  common.Address
	Thresholds Thresholds
	Lockers    []evm.Locker
	// Locks serves LP lock lookups, usually over a separate private endpoint.
	// Nil disables them.
	Locks  LockReader
	Logger *slog.Logger
}

// Engine is the assessment orchestrator.
type Engine struct {
	honeypot  *HoneypotCheck
	rugpull   *RugpullCheck
	liquidity *LiquidityCheck
	lplock    *LPLockCheck
	log       *slog.Logger
	now       func() time.Time
}

func NewEngine(gw Gateway, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		honeypot:  NewHoneypotCheck(gw, opts.BaseToken, opts.Thresholds),
		rugpull:   NewRugpullCheck(gw),
		liquidity: NewLiquidityCheck(gw, opts.BaseToken, opts.Thresholds),
		lplock:    NewLPLockCheck(opts.Locks, opts.Lockers),
		log:       logger.With("component", "assessment"),
		now:       time.Now,
	}
}

// Assess runs every check concurrently and never fails: problems are carried
// inside the per-check outcomes. The pool address is resolved once and shared
// by the liquidity and LP lock checks.
func (e *Engine) Assess(ctx context.Context, token domain.TokenAddress) domain.AssessmentResult {
	addr := token.Address()
	result := domain.AssessmentResult{Token: token}

	var g errgroup.Group
	g.Go(func() error {
		result.Honeypot = guard(e, domain.CheckHoneypot, func() domain.Outcome[domain.HoneypotData] {
			return e.honeypot.Run(ctx, addr)
		})
		return nil
	})
	g.Go(func() error {
		result.Rugpull = guard(e, domain.CheckRugpull, func() domain.Outcome[domain.RugpullData] {
			return e.rugpull.Run(ctx, addr)
		})
		return nil
	})
	g.Go(func() error {
		pool := e.liquidity.ResolvePool(ctx, addr)

		var pg errgroup.Group
		pg.Go(func() error {
			result.Liquidity = guard(e, domain.CheckLiquidity, func() domain.Outcome[domain.LiquidityData] {
				return e.liquidity.Run(ctx, addr, pool)
			})
			return nil
		})
		pg.Go(func() error {
			result.LPLock = e.lplock.Run(ctx, pool)
			return nil
		})
		return pg.Wait()
	})
	_ = g.Wait()

	result.Score = Score(result.Honeypot, result.Rugpull, result.Liquidity)
	result.Verdict = VerdictFor(result.Score)
	result.AssessedAt = e.now().UTC()

	failures := []struct {
		check   domain.CheckName
		failure *domain.Failure
	}{
		{domain.CheckHoneypot, result.Honeypot.Failure},
		{domain.CheckRugpull, result.Rugpull.Failure},
		{domain.CheckLiquidity, result.Liquidity.Failure},
	}
	for _, f := range failures {
		if f.failure != nil {
			e.log.Warn("check failed",
				"check", f.check, "token", token.String(), "kind", f.failure.Kind, "error", f.failure.Reason)
		}
	}
	return result
}

// guard converts a panic inside a check into that check's Failure.
func guard[T any](e *Engine, check domain.CheckName, run func() domain.Outcome[T]) (out domain.Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("check panicked", "check", check, "panic", r)
			out = domain.Fail[T](fmt.Errorf("internal error: %v", r))
		}
	}()
	return run()
}
