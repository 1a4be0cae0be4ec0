package main

import (
	"github.com/Noofbiz/aqiReport/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "aqireport",
	Short: "Score air quality models and render the Q1 report",
	Long: `aqireport evaluates pretrained AQI regression models against a naive
lag-1 baseline and renders the per-station comparison figure.
Every input and output path is relative to --root unless absolute.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./aqireport.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "directory holding data/, model/ and the outputs")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}
