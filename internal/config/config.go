// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
//   - Keys are flat so every field maps to one AUDIT_* environment variable.
//   - New() returns the defaults the pipeline runs with when nothing is set.
//   - Loading errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// InputFile is the long-format audit CSV.
	InputFile string `koanf:"input_file"`

	// OutputDir receives every generated file; created when absent.
	OutputDir string `koanf:"output_dir"`

	// File names inside OutputDir.
	HeatmapFile      string `koanf:"heatmap_file"`
	InsightsFile     string `koanf:"insights_file"`
	CompanyStatsFile string `koanf:"company_stats_file"`
	WorkbookFile     string `koanf:"workbook_file"`

	// WriteWorkbook enables the XLSX export.
	WriteWorkbook bool `koanf:"write_workbook"`

	// MetricsFile, when set, receives the run metrics in Prometheus text format.
	MetricsFile string `koanf:"metrics_file"`

	// SummaryLimit caps the uncontested and battleground console lists.
	SummaryLimit int `koanf:"summary_limit"`

	// Classification thresholds.
	UncontestedMaxAvg   float64 `koanf:"uncontested_max_avg"`
	LowScoreMax         int     `koanf:"low_score_max"`
	HighScoreMin        int     `koanf:"high_score_min"`
	UncontestedLowShare float64 `koanf:"uncontested_low_share"`
	BattlegroundMinAvg  float64 `koanf:"battleground_min_avg"`
	MixedMinStdDev      float64 `koanf:"mixed_min_std_dev"`

	// Heatmap raster geometry.
	ImageWidthIn  float64 `koanf:"image_width_in"`
	ImageHeightIn float64 `koanf:"image_height_in"`
	ImageDPI      int     `koanf:"image_dpi"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		InputFile:           filepath.Join("outputs", "audits", "master-competitive-audit.csv"),
		OutputDir:           filepath.Join("outputs", "insights"),
		HeatmapFile:         "competitive-heatmap.png",
		InsightsFile:        "competitive-insights.csv",
		CompanyStatsFile:    "competitive-company-stats.csv",
		WorkbookFile:        "competitive-insights.xlsx",
		WriteWorkbook:       false,
		SummaryLimit:        15,
		UncontestedMaxAvg:   2,
		LowScoreMax:         2,
		HighScoreMin:        4,
		UncontestedLowShare: 0.7,
		BattlegroundMinAvg:  4,
		MixedMinStdDev:      1.5,
		ImageWidthIn:        20,
		ImageHeightIn:       28,
		ImageDPI:            150,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.InputFile == "":
		return fmt.Errorf("%w: input_file must not be empty", ErrInvalidConfig)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	case c.HeatmapFile == "" || c.InsightsFile == "" || c.CompanyStatsFile == "":
		return fmt.Errorf("%w: output file names must not be empty", ErrInvalidConfig)
	case c.WriteWorkbook && c.WorkbookFile == "":
		return fmt.Errorf("%w: workbook_file must not be empty when write_workbook is set", ErrInvalidConfig)
	case c.SummaryLimit < 0:
		return fmt.Errorf("%w: summary_limit must not be negative", ErrInvalidConfig)
	case c.ImageDPI <= 0:
		return fmt.Errorf("%w: image_dpi must be positive", ErrInvalidConfig)
	case c.ImageWidthIn <= 0 || c.ImageHeightIn <= 0:
		return fmt.Errorf("%w: image size must be positive", ErrInvalidConfig)
	case c.UncontestedLowShare < 0 || c.UncontestedLowShare > 1:
		return fmt.Errorf("%w: uncontested_low_share must be within [0,1]", ErrInvalidConfig)
	}
	return nil
}

// HeatmapPath is the full path of the rendered image.
func (c *Config) HeatmapPath() string { return filepath.Join(c.OutputDir, c.HeatmapFile) }

// InsightsPath is the full path of the insights CSV.
func (c *Config) InsightsPath() string { return filepath.Join(c.OutputDir, c.InsightsFile) }

// CompanyStatsPath is the full path of the company stats CSV.
func (c *Config) CompanyStatsPath() string { return filepath.Join(c.OutputDir, c.CompanyStatsFile) }

// WorkbookPath is the full path of the XLSX workbook.
func (c *Config) WorkbookPath() string { return filepath.Join(c.OutputDir, c.WorkbookFile) }
