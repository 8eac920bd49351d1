package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// GetAmountsOut quotes amountIn along path on the configured router.
func (g *Gateway) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	values, err := g.CallContract(ctx, g.router, RouterABI, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		return nil, fmt.Errorf("getAmountsOut: %w: malformed amounts", domain.ErrContractCallReverted)
	}
	return amounts, nil
}

// GetPair returns the factory pair for (tokenA, tokenB). The zero address means no pool.
func (g *Gateway) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	values, err := g.CallContract(ctx, g.factory, FactoryABI, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

// GetReserves returns the pair's reserves in token0/token1 order.
func (g *Gateway) GetReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	values, err := g.CallContract(ctx, pair, PairABI, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("getReserves: %w: short output", domain.ErrContractCallReverted)
	}
	r0, err := asBig(values[0])
	if err != nil {
		return nil, nil, err
	}
	r1, err := asBig(values[1])
	if err != nil {
		return nil, nil, err
	}
	return r0, r1, nil
}

// Token0 returns the pair's first token.
func (g *Gateway) Token0(ctx context.Context, pair common.Address) (common.Address, error) {
	values, err := g.CallContract(ctx, pair, PairABI, "token0")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}
