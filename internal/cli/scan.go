package cli

import (
	"github.com/spf13/cobra"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan <address>",
	Short: "Scan one token and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	rep, err := a.scanner.Scan(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, scanJSON)
}
