package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// LockerKind selects how a lock vault is read.
type LockerKind string

const (
	// LockerPinkLock reads cumulativeLockInfo(lp).amount.
	LockerPinkLock LockerKind = "pinklock"
	// LockerUNCX sums tokenLocks(lp, i) over getNumLocksForToken(lp).
	LockerUNCX LockerKind = "uncx"
	// LockerBalance reads the LP token balance held by the vault.
	LockerBalance LockerKind = "balance"
)

// maxUNCXLocks bounds the number of lock records fetched per pair.
const maxUNCXLocks = 25

// Locker is a known LP lock vault.
type Locker struct {
	Name    string
	Address common.Address
	Kind    LockerKind
}

// LockInfo is what a vault holds for one LP token.
type LockInfo struct {
	Amount   *big.Int
	UnlockAt *time.Time
}

// DefaultLockers returns the BSC lock vaults checked out of the box.
func DefaultLockers() []Locker {
	return []Locker{
		{Name: "PinkLock", Address: common.HexToAddress("0x407993575c91ce7643a4d4cCACc9A98c36eE1BBE"), Kind: LockerPinkLock},
		{Name: "UNCX", Address: common.HexToAddress("0xC765bddB93b0D1c1A88282BA0fa6B2d00E3e0c83"), Kind: LockerUNCX},
		{Name: "Team Finance", Address: common.HexToAddress("0xE2fE530C047f2d85298b07D9333C05737f1435fB"), Kind: LockerBalance},
	}
}

// ParseLockerKind validates a configured kind.
func ParseLockerKind(s string) (LockerKind, error) {
	switch k := LockerKind(s); k {
	case LockerPinkLock, LockerUNCX, LockerBalance:
		return k, nil
	default:
		return "", fmt.Errorf("unknown locker kind %q", s)
	}
}

// LockInfo reads the locked amount of lp held by locker.
func (g *Gateway) LockInfo(ctx context.Context, locker Locker, lp common.Address) (LockInfo, error) {
	switch locker.Kind {
	case LockerPinkLock:
		return g.pinkLockInfo(ctx, locker.Address, lp)
	case LockerUNCX:
		return g.uncxLockInfo(ctx, locker.Address, lp)
	case LockerBalance:
		amount, err := g.BalanceOf(ctx, lp, locker.Address)
		if err != nil {
			return LockInfo{}, err
		}
		return LockInfo{Amount: amount}, nil
	default:
		return LockInfo{}, fmt.Errorf("%w: unsupported locker kind %q", domain.ErrNoLockerData, locker.Kind)
	}
}

func (g *Gateway) pinkLockInfo(ctx context.Context, vault, lp common.Address) (LockInfo, error) {
	values, err := g.CallContract(ctx, vault, PinkLockABI, "cumulativeLockInfo", lp)
	if err != nil {
		return LockInfo{}, err
	}
	if len(values) < 3 {
		return LockInfo{}, fmt.Errorf("cumulativeLockInfo: %w: short output", domain.ErrNoLockerData)
	}
	amount, err := asBig(values[2])
	if err != nil {
		return LockInfo{}, err
	}
	return LockInfo{Amount: amount}, nil
}

func (g *Gateway) uncxLockInfo(ctx context.Context, vault, lp common.Address) (LockInfo, error) {
	values, err := g.CallContract(ctx, vault, UNCXABI, "getNumLocksForToken", lp)
	if err != nil {
		return LockInfo{}, err
	}
	count, err := asBig(values[0])
	if err != nil {
		return LockInfo{}, err
	}

	n := int64(maxUNCXLocks)
	if count.IsInt64() && count.Int64() < n {
		n = count.Int64()
	}

	total := new(big.Int)
	var earliest *time.Time
	now := time.Now()
	for i := int64(0); i < n; i++ {
		lock, err := g.CallContract(ctx, vault, UNCXABI, "tokenLocks", lp, big.NewInt(i))
		if err != nil {
			return LockInfo{}, err
		}
		if len(lock) < 4 {
			return LockInfo{}, fmt.Errorf("tokenLocks: %w: short output", domain.ErrNoLockerData)
		}
		amount, err := asBig(lock[1])
		if err != nil {
			return LockInfo{}, err
		}
		unlockDate, err := asBig(lock[3])
		if err != nil {
			return LockInfo{}, err
		}

		total.Add(total, amount)
		if !unlockDate.IsInt64() {
			continue
		}
		at := time.Unix(unlockDate.Int64(), 0).UTC()
		if at.After(now) && (earliest == nil || at.Before(*earliest)) {
			earliest = &at
		}
	}
	return LockInfo{Amount: total, UnlockAt: earliest}, nil
}
