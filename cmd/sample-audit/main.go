package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/steelesean/Design-Automation/internal/sampledata"
	"github.com/steelesean/Design-Automation/pkg/logger"
)

func main() {
	defaults := sampledata.DefaultConfig()
	var (
		out       = flag.String("out", defaults.OutputFile, "Output CSV")
		companies = flag.Int("companies", defaults.Companies, "Number of companies")
		themes    = flag.Int("themes", defaults.Themes, "Number of themes")
		tactics   = flag.Int("tactics", defaults.TacticsPerTheme, "Tactics per theme")
		seed      = flag.Int64("seed", defaults.Seed, "Random seed")
		missing   = flag.Float64("missing", defaults.MissingRate, "Share of unscored cells")
		verbose   = flag.Bool("verbose", false, "Enable debug logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sampledata.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &sampledata.Config{
		OutputFile:      *out,
		Companies:       *companies,
		Themes:          *themes,
		TacticsPerTheme: *tactics,
		Seed:            *seed,
		MissingRate:     *missing,
		Verbose:         *verbose,
	}
	if err := sampledata.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "sample audit failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
