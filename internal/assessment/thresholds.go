package assessment

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// baseDecimals is the precision of the wrapped native base token and of pool LP tokens.
const baseDecimals = 18

// Thresholds are the tunable cut-offs of the checks, in whole token units.
type Thresholds struct {
	ProbeAmount     decimal.Decimal // base token sent through the router quote
	MaxLossPercent  decimal.Decimal // highest round-trip loss that still passes
	MinBaseReserve  decimal.Decimal // base token below which the pool is shallow
	MinTokenReserve decimal.Decimal // scanned token below which the pool is shallow
}

// DefaultThresholds returns the documented defaults: 0.01 probe, 40% loss,
// 1 base token and 1000 tokens of reserve.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ProbeAmount:     decimal.RequireFromString("0.01"),
		MaxLossPercent:  decimal.NewFromInt(40),
		MinBaseReserve:  decimal.NewFromInt(1),
		MinTokenReserve: decimal.NewFromInt(1000),
	}
}

// withDefaults replaces a non-positive probe amount with the default. Zero
// loss and reserve thresholds are honoured as configured.
func (t Thresholds) withDefaults() Thresholds {
	if !t.ProbeAmount.IsPositive() {
		t.ProbeAmount = DefaultThresholds().ProbeAmount
	}
	return t
}

func toUnits(raw *big.Int, decimals uint8) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

func toRaw(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).BigInt()
}
