// Package service runs the audit pipeline: load, compute, render, report and
// commit outputs.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/steelesean/Design-Automation/internal/adapters/render"
	"github.com/steelesean/Design-Automation/internal/adapters/report"
	"github.com/steelesean/Design-Automation/internal/adapters/repository"
	"github.com/steelesean/Design-Automation/internal/config"
	"github.com/steelesean/Design-Automation/internal/domain/insight"
	"github.com/steelesean/Design-Automation/internal/domain/model"
	"github.com/steelesean/Design-Automation/pkg/logger"
	"github.com/steelesean/Design-Automation/pkg/metrics"
)

// Service wires the pipeline stages together.
type Service struct {
	cfg     *config.Config
	logger  logger.Logger
	metrics *metrics.Manager
	stdout  io.Writer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the pipeline configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager runs are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithStdout sets where the console report is written.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.stdout = w
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:     config.New(),
		logger:  logger.Nop(),
		metrics: metrics.Default(),
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outputs holds every artifact of a run before anything touches disk.
type outputs struct {
	files   *repository.FileSet
	saved   []savedOutput
	summary report.Summary
}

type savedOutput struct {
	what, path string
}

func (o *outputs) stage(what, path string, data []byte) {
	o.files.Stage(path, data)
	o.saved = append(o.saved, savedOutput{what: what, path: path})
}

// Run executes the pipeline once. Any failure aborts the run; files are only
// written once every output has been produced.
func (s *Service) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	started := time.Now()
	console := report.NewConsole(s.stdout,
		report.WithLimit(s.cfg.SummaryLimit),
		report.WithScoreThresholds(s.cfg.LowScoreMax, s.cfg.HighScoreMin),
	)

	log.Info(ctx, "audit run started",
		logger.String("input", s.cfg.InputFile),
		logger.String("output_dir", s.cfg.OutputDir),
	)

	out := &outputs{files: repository.NewFileSet(repository.WithLogger(log.Named("files")))}
	var (
		ds       *model.Dataset
		insights []model.Insight
	)

	console.Progress("Loading audit data...")
	err := s.stage(ctx, log, metrics.StageLoad, func(ctx context.Context) error {
		loader := repository.NewLoader(repository.WithLogger(log.Named("loader")))
		var err error
		ds, err = loader.Load(ctx, s.cfg.InputFile)
		return err
	})
	if err != nil {
		return err
	}
	s.recordDataset(ds)

	console.Progress("Calculating insights...")
	err = s.stage(ctx, log, metrics.StageCompute, func(ctx context.Context) error {
		insights = s.calculator().Calculate(ctx, &ds.Matrix)
		u, b, m := insight.Counts(insights)
		s.metrics.RecordClassification(u, b, m)
		log.Info(ctx, "insights calculated",
			logger.Int("tactics", len(insights)),
			logger.Int("uncontested", u),
			logger.Int("battleground", b),
			logger.Int("mixed", m),
		)
		return nil
	})
	if err != nil {
		return err
	}

	console.Progress("Creating heatmap visualization...")
	err = s.stage(ctx, log, metrics.StageRender, func(ctx context.Context) error {
		var png bytes.Buffer
		r := render.New(
			render.WithSize(s.cfg.ImageWidthIn, s.cfg.ImageHeightIn),
			render.WithDPI(s.cfg.ImageDPI),
			render.WithLogger(log.Named("render")),
		)
		if err := r.Render(ctx, &ds.Matrix, insights, &png); err != nil {
			return err
		}
		out.stage("Heatmap", s.cfg.HeatmapPath(), png.Bytes())
		return nil
	})
	if err != nil {
		return err
	}

	console.Progress("Generating summary tables...")
	err = s.stage(ctx, log, metrics.StageReport, func(ctx context.Context) error {
		return s.buildReports(ds, insights, out)
	})
	if err != nil {
		return err
	}

	err = s.stage(ctx, log, metrics.StageCommit, func(ctx context.Context) error {
		if err := out.files.Commit(ctx); err != nil {
			return err
		}
		for range out.saved {
			s.metrics.RecordFileWritten()
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, o := range out.saved {
		console.Saved(o.what, o.path)
	}
	if err := console.Summary(out.summary); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}
	console.Progress("\n✓ Analysis complete!")

	s.metrics.MarkSuccess(float64(time.Now().Unix()))
	if s.cfg.MetricsFile != "" {
		if err := s.metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
			log.Error(ctx, "metrics export failed", logger.Error(err))
			return err
		}
	}

	log.Info(ctx, "audit run finished",
		logger.Duration("elapsed", time.Since(started)),
		logger.Int("files", len(out.saved)),
	)
	return nil
}

// buildReports encodes the CSV and workbook exports and prepares the summary.
func (s *Service) buildReports(ds *model.Dataset, insights []model.Insight, out *outputs) error {
	companies := insight.Companies(&ds.Matrix)
	themes := ds.Matrix.ThemeNames()

	var buf bytes.Buffer
	if err := repository.WriteInsights(&buf, insights); err != nil {
		return err
	}
	out.stage("Insights CSV", s.cfg.InsightsPath(), bytes.Clone(buf.Bytes()))

	buf.Reset()
	if err := repository.WriteCompanyStats(&buf, companies, themes); err != nil {
		return err
	}
	out.stage("Company stats CSV", s.cfg.CompanyStatsPath(), bytes.Clone(buf.Bytes()))

	if s.cfg.WriteWorkbook {
		buf.Reset()
		wb := report.Workbook{Matrix: &ds.Matrix, Insights: insights, Companies: companies, Themes: themes}
		if err := report.WriteWorkbook(&buf, wb); err != nil {
			return err
		}
		out.stage("Workbook", s.cfg.WorkbookPath(), bytes.Clone(buf.Bytes()))
	}

	out.summary = report.Summary{Matrix: &ds.Matrix, Insights: insights, Companies: companies}
	return nil
}

func (s *Service) calculator() *insight.Calculator {
	return insight.New(
		insight.WithUncontestedMaxAvg(s.cfg.UncontestedMaxAvg),
		insight.WithLowScoreMax(s.cfg.LowScoreMax),
		insight.WithHighScoreMin(s.cfg.HighScoreMin),
		insight.WithUncontestedLowShare(s.cfg.UncontestedLowShare),
		insight.WithBattlegroundMinAvg(s.cfg.BattlegroundMinAvg),
		insight.WithMixedMinStdDev(s.cfg.MixedMinStdDev),
	)
}

func (s *Service) recordDataset(ds *model.Dataset) {
	scored := 0
	for _, r := range ds.Records {
		if r.HasScore {
			scored++
		}
	}
	s.metrics.RecordDataset(len(ds.Records), scored, len(ds.Matrix.Rows), len(ds.Matrix.Companies), len(ds.Matrix.ThemeNames()))
}

// stage times fn into the stage histogram and counts its failure.
func (s *Service) stage(ctx context.Context, log logger.Logger, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveStage(name, elapsed.Seconds())
	if err != nil {
		s.metrics.RecordStageError(name)
		log.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug(ctx, "stage finished", logger.String("stage", name), logger.Duration("elapsed", elapsed))
	return nil
}
