package main

import (
	"github.com/Noofbiz/aqiReport/report"
	"github.com/spf13/cobra"
)

var smokeDataDir string

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Inventory the data directory",
	Long:  `Counts the files under the data directory and writes outputs/summary.csv.`,
	Args:  cobra.NoArgs,
	RunE:  runSmoke,
}

func init() {
	smokeCmd.Flags().StringVar(&smokeDataDir, "data-dir", "", "data directory to inventory (default data)")
	rootCmd.AddCommand(smokeCmd)
}

func runSmoke(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if smokeDataDir != "" {
		cfg.Smoke.DataDir = smokeDataDir
	}
	_, err = report.RunSmoke(cfg.Resolve(rootDir))
	return err
}
