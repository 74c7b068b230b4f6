package cli

import (
	"github.com/spf13/cobra"

	"funding-rate-scanner/internal/app"
)

var (
	exportThreshold string
	exportNoDelta   bool
	exportPNGPath   string
	exportCSVPath   string
	exportMaxOpps   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run one scan and export the ranked opportunities as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Threshold: exportThreshold,
			NoDelta:   exportNoDelta,
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			MaxOpps:   exportMaxOpps,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportThreshold, "threshold", "", "Minimum funding-rate difference as a raw fraction (defaults to config)")
	exportCmd.Flags().BoolVar(&exportNoDelta, "no-delta", false, "Exclude Delta Exchange from the scan")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG bar chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxOpps, "max", 0, "Maximum opportunities to export (defaults to config)")
}
