package assessment

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

func TestHoneypot_RoundTrip(t *testing.T) {
	chain := healthyChain()
	out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.True(t, out.Passed)
	assert.True(t, out.Data.TokensReceivedOnBuy.Equal(decimal.NewFromInt(5000)))
	assert.True(t, out.Data.BNBReturnedOnSell.Equal(decimal.RequireFromString("0.009")))
	assert.True(t, out.Data.RoundTripLossPercent.Equal(decimal.NewFromInt(10)),
		"loss = %s", out.Data.RoundTripLossPercent)
	assert.Empty(t, out.Findings)
}

func TestHoneypot_ProbeAmountIsSent(t *testing.T) {
	chain := healthyChain()
	var buyIn *big.Int
	inner := chain.amountsOut
	chain.amountsOut = func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
		if path[0] == wbnb {
			buyIn = amountIn
		}
		return inner(amountIn, path)
	}

	NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())
	assert.Equal(t, wei(1, 16), buyIn)
}

func TestHoneypot_LossBoundary(t *testing.T) {
	tests := []struct {
		name       string
		sellReturn *big.Int
		passed     bool
	}{
		{"exactly 40 percent", wei(6, 15), true},
		{"41 percent", wei(59, 14), false},
		{"nothing back", big.NewInt(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := healthyChain()
			chain.amountsOut = func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
				if path[0] == wbnb {
					return []*big.Int{amountIn, wei(5000, 18)}, nil
				}
				return []*big.Int{amountIn, tt.sellReturn}, nil
			}

			out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())
			require.True(t, out.OK())
			assert.Equal(t, tt.passed, out.Passed)
			if !tt.passed {
				assert.NotEmpty(t, out.Findings)
			}
		})
	}
}

func TestHoneypot_ZeroBuySkipsSell(t *testing.T) {
	chain := healthyChain()
	sells := 0
	chain.amountsOut = func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
		if path[0] == wbnb {
			return []*big.Int{amountIn, big.NewInt(0)}, nil
		}
		sells++
		return []*big.Int{amountIn, wei(9, 15)}, nil
	}

	out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.False(t, out.Passed)
	assert.Zero(t, sells)
	assert.True(t, out.Data.RoundTripLossPercent.IsZero(), "loss = %s", out.Data.RoundTripLossPercent)
	assert.Equal(t, []string{"router quotes zero tokens for the buy, sell leg skipped"}, out.Findings)
}

func TestHoneypot_SellRevertIsFailure(t *testing.T) {
	chain := healthyChain()
	chain.amountsOut = func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
		if path[0] == wbnb {
			return []*big.Int{amountIn, wei(5000, 18)}, nil
		}
		return nil, errRevert
	}

	out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())
	require.False(t, out.OK())
	assert.False(t, out.Passed)
	assert.Equal(t, domain.KindContractCallReverted, out.Failure.Kind)
	assert.Contains(t, out.Failure.Reason, "sell")
}

func TestHoneypot_BuyFailure(t *testing.T) {
	chain := healthyChain()
	chain.amountsOut = func(amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
		return nil, errUnavailable
	}

	out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())
	require.False(t, out.OK())
	assert.Equal(t, domain.KindGatewayUnavailable, out.Failure.Kind)
	assert.Contains(t, out.Failure.Reason, "buy")
}

func TestHoneypot_DecimalsFallback(t *testing.T) {
	chain := healthyChain()
	chain.decimalsErr = errRevert

	out := NewHoneypotCheck(chain, wbnb, DefaultThresholds()).Run(context.Background(), testToken.Address())
	require.True(t, out.OK())
	assert.True(t, out.Passed)
	assert.Contains(t, out.Findings, "decimals() unavailable, assuming 18")
}

func TestRugpull_RenouncedToken(t *testing.T) {
	out := NewRugpullCheck(healthyChain()).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.True(t, out.Passed)
	assert.Equal(t, "Test Token", out.Data.Name)
	assert.Equal(t, "TT", out.Data.Symbol)
	assert.Equal(t, uint8(18), out.Data.Decimals)
	assert.True(t, out.Data.TotalSupply.Equal(decimal.NewFromInt(1_000_000_000)))
	assert.True(t, out.Data.HasTransferFunction)
	assert.Equal(t, domain.OwnershipRenounced, out.Data.OwnershipStatus)
	assert.Nil(t, out.Data.Owner)
}

func TestRugpull_OwnedWithoutTransfer(t *testing.T) {
	chain := healthyChain()
	chain.owner = someOwner
	chain.probeErr = errRevert

	out := NewRugpullCheck(chain).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.False(t, out.Passed)
	assert.False(t, out.Data.HasTransferFunction)
	assert.Equal(t, domain.OwnershipOwned, out.Data.OwnershipStatus)
	require.NotNil(t, out.Data.Owner)
	assert.Equal(t, someOwner, *out.Data.Owner)
	assert.Len(t, out.Findings, 2)
}

func TestRugpull_OwnerAccessorAbsent(t *testing.T) {
	chain := healthyChain()
	chain.ownerErr = errRevert

	out := NewRugpullCheck(chain).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.Equal(t, domain.OwnershipUnknown, out.Data.OwnershipStatus)
	assert.False(t, out.Passed)
	assert.Contains(t, out.Findings, "no ownership accessor")
}

func TestRugpull_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeChain)
		kind  domain.ErrorKind
	}{
		{"no code", func(c *fakeChain) { c.code = nil }, domain.KindNoTokenInterface},
		{"code unavailable", func(c *fakeChain) { c.codeErr = errUnavailable }, domain.KindGatewayUnavailable},
		{"no metadata", func(c *fakeChain) {
			c.nameErr, c.symbolErr, c.decimalsErr, c.supplyErr = errRevert, errRevert, errRevert, errRevert
		}, domain.KindNoTokenInterface},
		{"node error on metadata", func(c *fakeChain) { c.symbolErr = errUnavailable }, domain.KindGatewayUnavailable},
		{"node error on probe", func(c *fakeChain) { c.probeErr = errUnavailable }, domain.KindGatewayUnavailable},
		{"node error on owner", func(c *fakeChain) { c.ownerErr = errUnavailable }, domain.KindGatewayUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := healthyChain()
			tt.setup(chain)

			out := NewRugpullCheck(chain).Run(context.Background(), testToken.Address())
			require.False(t, out.OK())
			assert.False(t, out.Passed)
			assert.Equal(t, tt.kind, out.Failure.Kind)
		})
	}
}

func TestRugpull_PartialMetadata(t *testing.T) {
	chain := healthyChain()
	chain.nameErr = errRevert

	out := NewRugpullCheck(chain).Run(context.Background(), testToken.Address())
	require.True(t, out.OK())
	assert.Empty(t, out.Data.Name)
	assert.Contains(t, out.Findings, "name() not available")
}

func TestLiquidity_ReservesByTokenOrder(t *testing.T) {
	chain := healthyChain()
	c := NewLiquidityCheck(chain, wbnb, DefaultThresholds())
	ctx := context.Background()

	pool := c.ResolvePool(ctx, testToken.Address())
	require.True(t, pool.Found())

	out := c.Run(ctx, testToken.Address(), pool)
	require.True(t, out.OK())
	assert.True(t, out.Passed)
	assert.Equal(t, testPair, out.Data.PairAddress)
	assert.True(t, out.Data.TokenReserve.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, out.Data.BaseReserve.Equal(decimal.NewFromInt(50)))

	// Base token sorted first
	chain.token0 = wbnb
	chain.reserves = [2]*big.Int{wei(50, 18), wei(1_000_000, 18)}
	out = c.Run(ctx, testToken.Address(), pool)
	require.True(t, out.OK())
	assert.True(t, out.Data.TokenReserve.Equal(decimal.NewFromInt(1_000_000)))
	assert.True(t, out.Data.BaseReserve.Equal(decimal.NewFromInt(50)))
}

func TestLiquidity_LowReserves(t *testing.T) {
	chain := healthyChain()
	chain.reserves = [2]*big.Int{wei(999, 18), wei(5, 17)}

	c := NewLiquidityCheck(chain, wbnb, DefaultThresholds())
	ctx := context.Background()
	out := c.Run(ctx, testToken.Address(), c.ResolvePool(ctx, testToken.Address()))

	require.True(t, out.OK())
	assert.False(t, out.Passed)
	assert.True(t, out.Data.LowBaseReserve)
	assert.True(t, out.Data.LowTokenReserve)
	assert.Len(t, out.Findings, 2)
}

func TestLiquidity_NoPool(t *testing.T) {
	chain := healthyChain()
	chain.pair = common.Address{}

	c := NewLiquidityCheck(chain, wbnb, DefaultThresholds())
	ctx := context.Background()
	out := c.Run(ctx, testToken.Address(), c.ResolvePool(ctx, testToken.Address()))

	require.False(t, out.OK())
	assert.Equal(t, "no liquidity pool found", out.Failure.Reason)
	assert.Equal(t, domain.KindNoPoolFound, out.Failure.Kind)
}

func TestLiquidity_ReservesUnavailable(t *testing.T) {
	chain := healthyChain()
	chain.reservesErr = errUnavailable

	c := NewLiquidityCheck(chain, wbnb, DefaultThresholds())
	ctx := context.Background()
	out := c.Run(ctx, testToken.Address(), c.ResolvePool(ctx, testToken.Address()))

	require.False(t, out.OK())
	assert.Equal(t, domain.KindGatewayUnavailable, out.Failure.Kind)
}

func TestLPLock_PerLockerIsolation(t *testing.T) {
	unlock := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	locks := &fakeLocks{
		infos: map[string]evm.LockInfo{
			"PinkLock":     {Amount: wei(12, 18), UnlockAt: &unlock},
			"Team Finance": {Amount: big.NewInt(0)},
		},
		errs: map[string]error{"UNCX": errRevert},
	}

	entries := NewLPLockCheck(locks, evm.DefaultLockers()).Run(context.Background(), PoolLookup{Pair: testPair})

	require.Len(t, entries, 3)
	assert.Equal(t, "PinkLock", entries[0].LockerName)
	assert.True(t, entries[0].Locked())
	assert.True(t, entries[0].LockedAmount.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, unlock, *entries[0].UnlockAt)

	assert.Equal(t, "UNCX", entries[1].LockerName)
	assert.False(t, entries[1].OK())
	assert.Contains(t, entries[1].Error, "no locker data")

	assert.Equal(t, "Team Finance", entries[2].LockerName)
	assert.True(t, entries[2].OK())
	assert.False(t, entries[2].Locked())
}

func TestLPLock_PanickingLockerIsIsolated(t *testing.T) {
	locks := healthyLocks()
	locks.panics = map[string]bool{"UNCX": true}

	entries := NewLPLockCheck(locks, evm.DefaultLockers()).Run(context.Background(), PoolLookup{Pair: testPair})

	require.Len(t, entries, 3)
	assert.True(t, entries[0].Locked())
	assert.Equal(t, "UNCX", entries[1].LockerName)
	assert.Contains(t, entries[1].Error, "internal error: locker blew up")
	assert.True(t, entries[2].OK())
}

func TestRugpull_TransferReturnsFalse(t *testing.T) {
	chain := healthyChain()
	chain.probeErr = evm.ErrTransferRejected

	out := NewRugpullCheck(chain).Run(context.Background(), testToken.Address())

	require.True(t, out.OK())
	assert.False(t, out.Passed)
	assert.False(t, out.Data.HasTransferFunction)
	assert.Contains(t, out.Findings, "transfer probe returned false, token may block transfers")
}

func TestLPLock_SyntheticEntries(t *testing.T) {
	locks := &fakeLocks{}
	ctx := context.Background()

	noPair := NewLPLockCheck(locks, evm.DefaultLockers()).Run(ctx, PoolLookup{Err: domain.ErrNoPoolFound})
	require.Len(t, noPair, 1)
	assert.Equal(t, domain.LPLockEntry{LockerName: "LP Lock Check", Error: "no LP pair found"}, noPair[0])

	disabled := NewLPLockCheck(nil, evm.DefaultLockers()).Run(ctx, PoolLookup{Pair: testPair})
	require.Len(t, disabled, 1)
	assert.Equal(t, LocksDisabledMessage, disabled[0].Error)

	assert.Zero(t, locks.calls.Load())
}
