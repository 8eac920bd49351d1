package assessment

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// PairReader reads the exchange factory and pool contracts.
type PairReader interface {
	GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error)
	GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error)
	Token0(ctx context.Context, pair common.Address) (common.Address, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}

// PoolLookup is the result of the single pair resolution shared by the
// liquidity and LP lock checks.
type PoolLookup struct {
	Pair common.Address
	Err  error
}

// Found reports whether a pool exists.
func (p PoolLookup) Found() bool {
	return p.Err == nil && p.Pair != (common.Address{})
}

// LiquidityCheck measures the depth of the token's base-currency pool.
type LiquidityCheck struct {
	pairs      PairReader
	base       common.Address
	thresholds Thresholds
}

func NewLiquidityCheck(pairs PairReader, base common.Address, thresholds Thresholds) *LiquidityCheck {
	return &LiquidityCheck{pairs: pairs, base: base, thresholds: thresholds.withDefaults()}
}

// ResolvePool looks up the (token, base) pair on the factory. A zero pair
// yields domain.ErrNoPoolFound.
func (c *LiquidityCheck) ResolvePool(ctx context.Context, token common.Address) PoolLookup {
	pair, err := c.pairs.GetPair(ctx, token, c.base)
	if err != nil {
		return PoolLookup{Err: fmt.Errorf("pair lookup failed: %w", err)}
	}
	if pair == (common.Address{}) {
		return PoolLookup{Err: domain.ErrNoPoolFound}
	}
	return PoolLookup{Pair: pair}
}

// Run reads the pool reserves and flags shallow sides.
func (c *LiquidityCheck) Run(ctx context.Context, token common.Address, pool PoolLookup) domain.Outcome[domain.LiquidityData] {
	if !pool.Found() {
		err := pool.Err
		if err == nil {
			err = domain.ErrNoPoolFound
		}
		return domain.Fail[domain.LiquidityData](err)
	}

	r0, r1, err := c.pairs.GetReserves(ctx, pool.Pair)
	if err != nil {
		return domain.Fail[domain.LiquidityData](fmt.Errorf("read reserves: %w", err))
	}
	token0, err := c.pairs.Token0(ctx, pool.Pair)
	if err != nil {
		return domain.Fail[domain.LiquidityData](fmt.Errorf("read token0: %w", err))
	}

	tokenRaw, baseRaw := r0, r1
	if token0 != token {
		tokenRaw, baseRaw = r1, r0
	}

	var findings []string
	decimals, err := c.pairs.Decimals(ctx, token)
	if err != nil {
		decimals = baseDecimals
		findings = append(findings, "decimals() unavailable, assuming 18")
	}

	data := domain.LiquidityData{
		PairAddress:  pool.Pair,
		BaseReserve:  toUnits(baseRaw, baseDecimals),
		TokenReserve: toUnits(tokenRaw, decimals),
	}
	data.LowBaseReserve = data.BaseReserve.LessThan(c.thresholds.MinBaseReserve)
	data.LowTokenReserve = data.TokenReserve.LessThan(c.thresholds.MinTokenReserve)

	if data.LowBaseReserve {
		findings = append(findings, fmt.Sprintf("base reserve %s below %s",
			data.BaseReserve.StringFixed(4), c.thresholds.MinBaseReserve.String()))
	}
	if data.LowTokenReserve {
		findings = append(findings, fmt.Sprintf("token reserve %s below %s",
			data.TokenReserve.StringFixed(2), c.thresholds.MinTokenReserve.String()))
	}

	return domain.Succeed(data, !data.LowBaseReserve && !data.LowTokenReserve, findings)
}
