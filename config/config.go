package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/aqiReport/models"
)

// Config holds the report inputs and outputs. Relative paths are resolved
// against the run root.
type Config struct {
	Smoke SmokeConfig `yaml:"smoke"`
	Q1    Q1Config    `yaml:"q1"`
}

// SmokeConfig configures the data inventory.
type SmokeConfig struct {
	DataDir string `yaml:"data_dir,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// Q1Config configures the model comparison report.
type Q1Config struct {
	FeatureCols  string        `yaml:"feature_cols,omitempty"`
	TestData     string        `yaml:"test_data,omitempty"`
	StationDaily string        `yaml:"station_daily,omitempty"`
	StationID    string        `yaml:"station_id,omitempty"`
	Models       []models.Spec `yaml:"models,omitempty"`
	OutputDir    string        `yaml:"output_dir,omitempty"`
	DPI          int           `yaml:"dpi,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Smoke: SmokeConfig{
			DataDir: "data",
			Output:  "outputs/summary.csv",
		},
		Q1: Q1Config{
			FeatureCols:  "data/Q1_data/feature_cols.json",
			TestData:     "data/Q1_data/test_all.csv",
			StationDaily: "data/Q1_data/station12008_test_daily.csv",
			StationID:    "12008",
			Models:       models.DefaultSpecs(),
			OutputDir:    "scripts/output",
			DPI:          150,
		},
	}
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "aqireport.yaml"
}

// Load reads the config file. Fields left out of the file keep their
// defaults; a missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Q1.StationID == "" {
		return nil, fmt.Errorf("parsing config file: q1.station_id is empty")
	}
	return cfg, nil
}

// Resolve returns a copy of the config with every relative path joined onto
// root.
func (c *Config) Resolve(root string) *Config {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	out := *c
	out.Smoke.DataDir = join(c.Smoke.DataDir)
	out.Smoke.Output = join(c.Smoke.Output)
	out.Q1.FeatureCols = join(c.Q1.FeatureCols)
	out.Q1.TestData = join(c.Q1.TestData)
	out.Q1.StationDaily = join(c.Q1.StationDaily)
	out.Q1.OutputDir = join(c.Q1.OutputDir)
	out.Q1.Models = make([]models.Spec, len(c.Q1.Models))
	for i, m := range c.Q1.Models {
		out.Q1.Models[i] = models.Spec{Name: m.Name, Path: join(m.Path)}
	}
	return &out
}

// MetricsPath is the metrics table location.
func (q Q1Config) MetricsPath() string {
	return filepath.Join(q.OutputDir, "q1_table1_test_metrics.csv")
}

// FigurePath is the station figure location.
func (q Q1Config) FigurePath() string {
	return filepath.Join(q.OutputDir, fmt.Sprintf("q1_fig1_station%s_small_multiples_error.png", q.StationID))
}
