// Package report renders a scan as operator-facing text.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietddude/cryptoshield/internal/assessment"
	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/scanner"
)

// Render writes the report for r to w.
func Render(w io.Writer, r *scanner.Report) error {
	_, err := io.WriteString(w, Text(r))
	return err
}

// Text returns the report for r as a string.
func Text(r *scanner.Report) string {
	var b strings.Builder

	b.WriteString("[HONEYPOT CHECK]\n")
	writeOutcome(&b, r.Honeypot.OK(), r.Honeypot.Failure, r.Honeypot.Passed, r.Honeypot.Findings, func() {
		d := r.Honeypot.Data
		line(&b, "Tokens received on buy", amount(d.TokensReceivedOnBuy))
		line(&b, "BNB returned on sell", amount(d.BNBReturnedOnSell))
		line(&b, "Round-trip loss", d.RoundTripLossPercent.StringFixed(2)+"%")
	})

	b.WriteString("\n[RUG PULL CHECK]\n")
	writeOutcome(&b, r.Rugpull.OK(), r.Rugpull.Failure, r.Rugpull.Passed, r.Rugpull.Findings, func() {
		d := r.Rugpull.Data
		line(&b, "Name", fallback(d.Name))
		line(&b, "Symbol", fallback(d.Symbol))
		line(&b, "Decimals", fmt.Sprint(d.Decimals))
		line(&b, "Total supply", amount(d.TotalSupply))
		line(&b, "Transfer function", yesNo(d.HasTransferFunction))
		owner := string(d.OwnershipStatus)
		if d.Owner != nil && d.OwnershipStatus == domain.OwnershipOwned {
			owner += " (" + d.Owner.Hex() + ")"
		}
		line(&b, "Ownership", owner)
	})

	b.WriteString("\n[LIQUIDITY CHECK]\n")
	writeOutcome(&b, r.Liquidity.OK(), r.Liquidity.Failure, r.Liquidity.Passed, r.Liquidity.Findings, func() {
		d := r.Liquidity.Data
		line(&b, "Pair", d.PairAddress.Hex())
		line(&b, "BNB reserve", amount(d.BaseReserve))
		line(&b, "Token reserve", amount(d.TokenReserve))
	})

	b.WriteString("\n[LP LOCK CHECK]\n")
	for _, e := range r.LPLock {
		switch {
		case !e.OK():
			fmt.Fprintf(&b, "  %s: %s\n", e.LockerName, e.Error)
		case e.Locked():
			unlock := "no unlock date"
			if e.UnlockAt != nil {
				unlock = "unlocks " + e.UnlockAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(&b, "  %s: %s LP locked, %s\n", e.LockerName, amount(*e.LockedAmount), unlock)
		default:
			fmt.Fprintf(&b, "  %s: nothing locked\n", e.LockerName)
		}
	}

	fmt.Fprintf(&b, "\nCryptoShield Score for %s: %d/%d\n", r.Token.String(), r.Score, assessment.MaxScore)
	fmt.Fprintf(&b, "Verdict: %s\n", r.Verdict.Message())
	if r.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
	}
	return b.String()
}

func writeOutcome(b *strings.Builder, ok bool, f *domain.Failure, passed bool, findings []string, data func()) {
	if f != nil {
		fmt.Fprintf(b, "  Status: ERROR (%s)\n", f.Kind)
		fmt.Fprintf(b, "  Reason: %s\n", f.Reason)
		return
	}
	if !ok {
		line(b, "Status", "NOT RUN")
		return
	}
	status := "PASSED"
	if !passed {
		status = "FAILED"
	}
	line(b, "Status", status)
	data()
	for _, finding := range findings {
		fmt.Fprintf(b, "  - %s\n", finding)
	}
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}

func amount(d decimal.Decimal) string {
	return d.Round(6).String()
}

func yesNo(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func fallback(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
