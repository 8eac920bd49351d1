package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vietddude/cryptoshield/internal/core/domain"
	"github.com/vietddude/cryptoshield/internal/report"
	"github.com/vietddude/cryptoshield/internal/scanner"
)

const exitKeyword = "exit"

// tokenScanner is the part of the scan service the CLI uses.
type tokenScanner interface {
	Scan(ctx context.Context, raw string) (*scanner.Report, error)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	return promptLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a.scanner)
}

// promptLoop reads one address per line until exit or end of input.
func promptLoop(ctx context.Context, in io.Reader, out io.Writer, scans tokenScanner) error {
	fmt.Fprintln(out, "CryptoShield token scanner")
	lines := bufio.NewScanner(in)

	for {
		fmt.Fprintf(out, "\nEnter token address (0x...) or %q: ", exitKeyword)
		if !lines.Scan() {
			fmt.Fprintln(out)
			return lines.Err()
		}

		input := strings.TrimSpace(lines.Text())
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, exitKeyword):
			fmt.Fprintln(out, "Bye.")
			return nil
		}

		fmt.Fprintf(out, "Scanning %s...\n\n", input)
		rep, err := scans.Scan(ctx, input)
		if errors.Is(err, domain.ErrInvalidInput) {
			fmt.Fprintf(out, "Invalid address: %v\n", err)
			continue
		}
		if err != nil {
			return err
		}
		if err := report.Render(out, rep); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// writeReport prints rep as text or indented JSON.
func writeReport(out io.Writer, rep *scanner.Report, asJSON bool) error {
	if !asJSON {
		return report.Render(out, rep)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
