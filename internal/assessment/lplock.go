package assessment

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/infra/chain/evm"
)

// Messages of the synthetic single-entry results.
const (
	NoPairMessage        = "no LP pair found"
	LocksDisabledMessage = "LP lock lookups disabled: no private RPC endpoint configured"
)

// LockReader reads what a lock vault holds for an LP token.
type LockReader interface {
	LockInfo(ctx context.Context, locker evm.Locker, lp common.Address) (evm.LockInfo, error)
}

// LPLockCheck asks each known vault how much of the pool token it holds.
// The result is informational and never scored.
type LPLockCheck struct {
	locks   LockReader
	lockers []evm.Locker
}

// NewLPLockCheck creates the check. A nil reader disables the lookups.
func NewLPLockCheck(locks LockReader, lockers []evm.Locker) *LPLockCheck {
	return &LPLockCheck{locks: locks, lockers: lockers}
}

// Run returns one entry per locker in configuration order. A failing or
// panicking locker only affects its own entry.
func (c *LPLockCheck) Run(ctx context.Context, pool PoolLookup) []domain.LPLockEntry {
	if !pool.Found() {
		return []domain.LPLockEntry{{LockerName: domain.LPLockCheckName, Error: NoPairMessage}}
	}
	if c.locks == nil {
		return []domain.LPLockEntry{{LockerName: domain.LPLockCheckName, Error: LocksDisabledMessage}}
	}

	entries := make([]domain.LPLockEntry, len(c.lockers))

	var g errgroup.Group
	for i, locker := range c.lockers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					entries[i] = domain.LockErrorEntry(locker.Name, fmt.Errorf("internal error: %v", r))
				}
			}()
			entries[i] = c.query(ctx, locker, pool.Pair)
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

func (c *LPLockCheck) query(ctx context.Context, locker evm.Locker, lp common.Address) domain.LPLockEntry {
	info, err := c.locks.LockInfo(ctx, locker, lp)
	if err != nil {
		if errors.Is(err, domain.ErrContractCallReverted) {
			err = fmt.Errorf("%w: %w", domain.ErrNoLockerData, err)
		}
		return domain.LockErrorEntry(locker.Name, err)
	}
	return domain.LockedEntry(locker.Name, toUnits(info.Amount, baseDecimals), info.UnlockAt)
}
