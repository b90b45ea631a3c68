package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/steelesean/Design-Automation/internal/app"
	"github.com/steelesean/Design-Automation/internal/config"
	"github.com/steelesean/Design-Automation/pkg/logger"
	"github.com/steelesean/Design-Automation/pkg/metrics"
)

// flags holds the optional command line overrides.
type flags struct {
	configFile string
	input      string
	outputDir  string
	logLevel   string
	workbook   bool
}

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "audit-heatmap",
		Short:         "Render the competitive audit heatmap and insights",
		Long:          "Loads the competitive audit CSV, classifies every tactic, renders the heatmap PNG and writes the insights exports.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.configFile, "config", "", "YAML config file (overrides AUDIT_CONFIG)")
	cmd.Flags().StringVar(&f.input, "input", "", "audit CSV to read")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory receiving the outputs")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVar(&f.workbook, "xlsx", false, "also write the XLSX workbook")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	ctx := cmd.Context()
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env), then flags.
	cfg, err := config.Load(ctx, config.WithFile(f.configFile))
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithConfig(cfg),
		app.WithLogger(log.Named("pipeline")),
		app.WithMetrics(metrics.Default()),
		app.WithStdout(cmd.OutOrStdout()),
	)
	if err := svc.Run(ctx); err != nil {
		log.Error(ctx, "audit run failed", logger.Error(err))
		return err
	}
	return nil
}

// applyFlags overrides cfg with the flags that were set explicitly.
func applyFlags(cmd *cobra.Command, f flags, cfg *config.Config) {
	set := cmd.Flags().Changed
	if set("input") {
		cfg.InputFile = f.input
	}
	if set("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("xlsx") {
		cfg.WriteWorkbook = f.workbook
	}
}
