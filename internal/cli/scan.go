package cli

import (
	"github.com/spf13/cobra"

	"funding-rate-scanner/internal/app"
)

var (
	scanThreshold string
	scanNoDelta   bool
	scanJSON      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one snapshot scan and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ScanOptions{
			Threshold: scanThreshold,
			NoDelta:   scanNoDelta,
			JSON:      scanJSON,
		}
		return getApp().Scan(cmd.Context(), opts)
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanThreshold, "threshold", "", "Minimum funding-rate difference as a raw fraction (defaults to config, 0.003)")
	scanCmd.Flags().BoolVar(&scanNoDelta, "no-delta", false, "Exclude Delta Exchange from the scan")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit machine-readable JSON instead of formatted text")
}
