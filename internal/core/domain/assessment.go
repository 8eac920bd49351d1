package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CheckName identifies one of the assessment checks.
type CheckName string

const (
	CheckHoneypot  CheckName = "honeypot"
	CheckRugpull   CheckName = "rugpull"
	CheckLiquidity CheckName = "liquidity"
	CheckLPLock    CheckName = "lp_lock"
)

// HoneypotData is the round-trip trade simulation result.
type HoneypotData struct {
	TokensReceivedOnBuy  decimal.Decimal `json:"tokens_received_on_buy"`
	BNBReturnedOnSell    decimal.Decimal `json:"bnb_returned_on_sell"`
	RoundTripLossPercent decimal.Decimal `json:"round_trip_loss_percent"`
}

type OwnershipStatus string

const (
	OwnershipRenounced OwnershipStatus = "renounced"
	OwnershipOwned     OwnershipStatus = "owned"
	OwnershipUnknown   OwnershipStatus = "unknown"
)

// RugpullData is the token metadata and ownership surface.
type RugpullData struct {
	Name                string          `json:"name"`
	Symbol              string          `json:"symbol"`
	Decimals            uint8           `json:"decimals"`
	TotalSupply         decimal.Decimal `json:"total_supply"`
	HasTransferFunction bool            `json:"has_transfer_function"`
	OwnershipStatus     OwnershipStatus `json:"ownership_status"`
	Owner               *common.Address `json:"owner,omitempty"`
}

// LiquidityData is the primary pool depth.
type LiquidityData struct {
	PairAddress     common.Address  `json:"pair_address"`
	BaseReserve     decimal.Decimal `json:"base_reserve"`
	TokenReserve    decimal.Decimal `json:"token_reserve"`
	LowBaseReserve  bool            `json:"low_base_reserve"`
	LowTokenReserve bool            `json:"low_token_reserve"`
}

// LPLockEntry is one lock vault's answer for the pool token. Either Error is set, or
// LockedAmount (and optionally UnlockAt) is.
type LPLockEntry struct {
	LockerName   string           `json:"locker"`
	LockedAmount *decimal.Decimal `json:"locked_amount,omitempty"`
	UnlockAt     *time.Time       `json:"unlocks_at,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// LockerName used for the synthetic entry when no pool token exists.
const LPLockCheckName = "LP Lock Check"

// LockedEntry builds a successful lock entry.
func LockedEntry(locker string, amount decimal.Decimal, unlockAt *time.Time) LPLockEntry {
	return LPLockEntry{LockerName: locker, LockedAmount: &amount, UnlockAt: unlockAt}
}

// LockErrorEntry builds a per-locker failure entry.
func LockErrorEntry(locker string, err error) LPLockEntry {
	return LPLockEntry{LockerName: locker, Error: err.Error()}
}

// OK reports whether the locker answered.
func (e LPLockEntry) OK() bool { return e.Error == "" }

// Locked reports whether the locker holds a positive amount.
func (e LPLockEntry) Locked() bool {
	return e.OK() && e.LockedAmount != nil && e.LockedAmount.IsPositive()
}

// Verdict is the three-tier label derived from the score.
type Verdict string

const (
	VerdictPass Verdict = "PASS"
	VerdictWarn Verdict = "WARN"
	VerdictFail Verdict = "FAIL"
)

// Message returns the operator-facing wording for v.
func (v Verdict) Message() string {
	switch v {
	case VerdictPass:
		return "PASSED - GOOD TO BUY"
	case VerdictWarn:
		return "WARNING - PROCEED WITH CAUTION"
	default:
		return "FAILED - SCAM LIKELY"
	}
}

// AssessmentResult is the complete outcome of one scan. Built once, not mutated afterwards.
type AssessmentResult struct {
	Token      TokenAddress           `json:"token"`
	Honeypot   Outcome[HoneypotData]  `json:"honeypot"`
	Rugpull    Outcome[RugpullData]   `json:"rugpull"`
	Liquidity  Outcome[LiquidityData] `json:"liquidity"`
	LPLock     []LPLockEntry          `json:"lp_lock"`
	Score      int                    `json:"score"`
	Verdict    Verdict                `json:"verdict"`
	AssessedAt time.Time              `json:"assessed_at"`
}
