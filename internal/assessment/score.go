package assessment

import "github.com/vietddude/cryptoshield/internal/core/domain"

// Points awarded per criterion.
const (
	pointsHoneypotPassed   = 3
	pointsTransferFunction = 2
	pointsOwnerRenounced   = 1
	pointsBaseReserve      = 2
	pointsTokenReserve     = 2

	MaxScore = pointsHoneypotPassed + pointsTransferFunction + pointsOwnerRenounced +
		pointsBaseReserve + pointsTokenReserve
)

// Verdict cut-offs.
const (
	PassScore = 7
	WarnScore = 4
)

// Score combines the scored outcomes into 0..MaxScore. Failed outcomes add nothing.
func Score(
	honeypot domain.Outcome[domain.HoneypotData],
	rugpull domain.Outcome[domain.RugpullData],
	liquidity domain.Outcome[domain.LiquidityData],
) int {
	score := 0

	if honeypot.OK() && honeypot.Passed {
		score += pointsHoneypotPassed
	}
	if rugpull.OK() {
		if rugpull.Data.HasTransferFunction {
			score += pointsTransferFunction
		}
		if rugpull.Data.OwnershipStatus == domain.OwnershipRenounced {
			score += pointsOwnerRenounced
		}
	}
	if liquidity.OK() {
		if !liquidity.Data.LowBaseReserve {
			score += pointsBaseReserve
		}
		if !liquidity.Data.LowTokenReserve {
			score += pointsTokenReserve
		}
	}

	return score
}

// VerdictFor maps a score onto the three-tier verdict.
func VerdictFor(score int) domain.Verdict {
	switch {
	case score >= PassScore:
		return domain.VerdictPass
	case score >= WarnScore:
		return domain.VerdictWarn
	default:
		return domain.VerdictFail
	}
}
