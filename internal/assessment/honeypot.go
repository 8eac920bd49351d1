package assessment

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/vietddude/cryptoshield/internal/core/domain"
)

// QuoteReader quotes swaps on the exchange router.
type QuoteReader interface {
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}

// HoneypotCheck simulates a buy immediately followed by a sell through the
// router and measures how much of the probe comes back.
type HoneypotCheck struct {
	quotes     QuoteReader
	base       common.Address
	thresholds Thresholds
}

func NewHoneypotCheck(quotes QuoteReader, base common.Address, thresholds Thresholds) *HoneypotCheck {
	return &HoneypotCheck{quotes: quotes, base: base, thresholds: thresholds.withDefaults()}
}

// Run quotes [base, token] with the probe amount, then [token, base] with
// what the buy returned. A revert on either leg is a Failure; on the sell leg
// it is the typical honeypot signature.
func (c *HoneypotCheck) Run(ctx context.Context, token common.Address) domain.Outcome[domain.HoneypotData] {
	amountIn := c.thresholds.ProbeAmount
	amountInRaw := toRaw(amountIn, baseDecimals)

	buy, err := c.quotes.GetAmountsOut(ctx, amountInRaw, []common.Address{c.base, token})
	if err != nil {
		return domain.Fail[domain.HoneypotData](fmt.Errorf("buy quote failed: %w", err))
	}
	tokensOutRaw := buy[len(buy)-1]

	var findings []string

	decimals, err := c.quotes.Decimals(ctx, token)
	if err != nil {
		decimals = baseDecimals
		findings = append(findings, "decimals() unavailable, assuming 18")
	}

	if tokensOutRaw.Sign() <= 0 {
		// No round trip happened, so no loss is computed.
		findings = append(findings, "router quotes zero tokens for the buy, sell leg skipped")
		return domain.Succeed(domain.HoneypotData{
			TokensReceivedOnBuy:  decimal.Zero,
			BNBReturnedOnSell:    decimal.Zero,
			RoundTripLossPercent: decimal.Zero,
		}, false, findings)
	}

	sell, err := c.quotes.GetAmountsOut(ctx, tokensOutRaw, []common.Address{token, c.base})
	if err != nil {
		return domain.Fail[domain.HoneypotData](
			fmt.Errorf("sell quote failed, token may not be sellable: %w", err))
	}
	bnbBackRaw := sell[len(sell)-1]

	bnbBack := toUnits(bnbBackRaw, baseDecimals)
	loss := amountIn.Sub(bnbBack).Div(amountIn).Mul(decimal.NewFromInt(100))

	passed := bnbBack.IsPositive() && loss.LessThanOrEqual(c.thresholds.MaxLossPercent)
	if !bnbBack.IsPositive() {
		findings = append(findings, "sell returns nothing")
	} else if !passed {
		findings = append(findings, fmt.Sprintf("round-trip loss %s%% exceeds %s%%",
			loss.StringFixed(2), c.thresholds.MaxLossPercent.String()))
	}

	return domain.Succeed(domain.HoneypotData{
		TokensReceivedOnBuy:  toUnits(tokensOutRaw, decimals),
		BNBReturnedOnSell:    bnbBack,
		RoundTripLossPercent: loss,
	}, passed, findings)
}
