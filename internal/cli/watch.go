package cli

import (
	"github.com/spf13/cobra"

	"funding-rate-scanner/internal/app"
)

var (
	watchThreshold string
	watchNoDelta   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan on an aligned interval and alert on opportunities",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.WatchOptions{
			Threshold: watchThreshold,
			NoDelta:   watchNoDelta,
		}
		return getApp().Watch(cmd.Context(), opts)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchThreshold, "threshold", "", "Minimum funding-rate difference as a raw fraction (defaults to config)")
	watchCmd.Flags().BoolVar(&watchNoDelta, "no-delta", false, "Exclude Delta Exchange from the scans")
}
