package sampledata

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/steelesean/Design-Automation/pkg/logger"
)

// File permission constants.
const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// Run generates an audit and writes it to cfg.OutputFile.
func Run(ctx context.Context, cfg *Config) error {
	start := time.Now()
	records, err := Generate(ctx, cfg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.OutputFile), dirPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.OutputFile, buf.Bytes(), filePermission); err != nil {
		return fmt.Errorf("failed to write sample audit: %w", err)
	}

	logger.Get().Info(ctx, "sample audit written",
		logger.String("path", cfg.OutputFile),
		logger.Int("records", len(records)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// ShowHelp prints usage information for the sample audit tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Sample Audit Generator
======================

Writes a synthetic long-format competitive audit CSV.

Usage:
  go run ./cmd/sample-audit [options]

Options:
  -out string
        Output CSV (default "outputs/audits/master-competitive-audit.csv")
  -companies int
        Number of companies (default 11)
  -themes int
        Number of themes (default 6)
  -tactics int
        Tactics per theme (default 11)
  -seed int
        Random seed (default 42)
  -missing float
        Share of unscored cells (default 0.03)
  -verbose
        Enable debug logging
  -help
        Show help
`)
}
