package main

import (
	"github.com/Noofbiz/aqiReport/report"
	"github.com/spf13/cobra"
)

var (
	q1Station string
	q1DPI     int
)

var q1Cmd = &cobra.Command{
	Use:   "q1",
	Short: "Compare the Q1 models on the test set",
	Long: `Loads the feature list, test set, station daily series and the four
pretrained models, writes the metrics table sorted by RMSE and renders the
small multiples + error figure for one station.`,
	Args: cobra.NoArgs,
	RunE: runQ1,
}

func init() {
	q1Cmd.Flags().StringVar(&q1Station, "station", "", "station id for the figure (default 12008)")
	q1Cmd.Flags().IntVar(&q1DPI, "dpi", 0, "figure resolution (default 150)")
	rootCmd.AddCommand(q1Cmd)
}

func runQ1(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if q1Station != "" {
		cfg.Q1.StationID = q1Station
	}
	if q1DPI > 0 {
		cfg.Q1.DPI = q1DPI
	}
	_, err = report.RunQ1(cfg.Resolve(rootDir))
	return err
}
