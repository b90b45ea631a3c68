// Package sampledata generates synthetic competitive audits for demos and
// tests.
package sampledata

// Config holds configuration for the sample audit generator.
type Config struct {
	OutputFile      string  // Destination CSV
	Companies       int     // Number of audited companies
	Themes          int     // Number of themes
	TacticsPerTheme int     // Tactics generated for each theme
	Seed            int64   // Random seed; equal seeds give equal audits
	MissingRate     float64 // Share of cells left unscored, in [0, 1)
	Verbose         bool    // Enable debug logging
}

// Default generator settings.
const (
	DefaultCompanies       = 11
	DefaultThemes          = 6
	DefaultTacticsPerTheme = 11
	DefaultSeed            = 42
	DefaultMissingRate     = 0.03
)

// DefaultConfig returns a config sized like a typical audit.
func DefaultConfig() *Config {
	return &Config{
		OutputFile:      "outputs/audits/master-competitive-audit.csv",
		Companies:       DefaultCompanies,
		Themes:          DefaultThemes,
		TacticsPerTheme: DefaultTacticsPerTheme,
		Seed:            DefaultSeed,
		MissingRate:     DefaultMissingRate,
	}
}
