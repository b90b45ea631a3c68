// Package metrics provides Prometheus metrics for the audit heatmap pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stage label values.
const (
	StageLoad    = "load"
	StageCompute = "compute"
	StageRender  = "render"
	StageReport  = "report"
	StageCommit  = "commit"
)

// Manager manages all Prometheus metrics for one pipeline process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         *prometheus.Registry

	// Dataset shape
	recordsLoaded prometheus.Gauge
	recordsScored prometheus.Gauge
	tactics       prometheus.Gauge
	companies     prometheus.Gauge
	themes        prometheus.Gauge

	// Classification results
	uncontested  prometheus.Gauge
	battleground prometheus.Gauge
	mixed        prometheus.Gauge

	// Stage health
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
	filesWritten  prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager on its own registry, so the Go
// runtime collectors never leak into the exported batch metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "audit",
		subsystem:        "heatmap",
		histogramBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = m.gauge("records_loaded", "Audit rows read from the input CSV")
	m.recordsScored = m.gauge("records_scored", "Audit rows that carried a score and entered the matrix")
	m.tactics = m.gauge("tactics", "Tactic rows in the score matrix")
	m.companies = m.gauge("companies", "Company columns in the score matrix")
	m.themes = m.gauge("themes", "Distinct themes in the score matrix")

	m.uncontested = m.gauge("uncontested_tactics", "Tactics classified as uncontested opportunities")
	m.battleground = m.gauge("battleground_tactics", "Tactics classified as battlegrounds")
	m.mixed = m.gauge("mixed_tactics", "Tactics with a high score spread")

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Duration of each pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_errors_total",
		Help:        "Pipeline stage failures",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.lastSuccess = m.gauge("last_success_timestamp_seconds", "Unix time of the last completed run")

	m.filesWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "files_written_total",
		Help:        "Output files committed to disk",
		ConstLabels: m.constLabels,
	})
}

// RecordDataset sets the dataset shape gauges.
func (m *Manager) RecordDataset(records, scored, tactics, companies, themes int) {
	if !m.enabled {
		return
	}
	m.recordsLoaded.Set(float64(records))
	m.recordsScored.Set(float64(scored))
	m.tactics.Set(float64(tactics))
	m.companies.Set(float64(companies))
	m.themes.Set(float64(themes))
}

// RecordClassification sets the classification gauges.
func (m *Manager) RecordClassification(uncontested, battleground, mixed int) {
	if !m.enabled {
		return
	}
	m.uncontested.Set(float64(uncontested))
	m.battleground.Set(float64(battleground))
	m.mixed.Set(float64(mixed))
}

// ObserveStage records how long a stage took, in seconds.
func (m *Manager) ObserveStage(stage string, seconds float64) {
	if !m.enabled {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordStageError counts a failed stage.
func (m *Manager) RecordStageError(stage string) {
	if !m.enabled {
		return
	}
	m.stageErrors.WithLabelValues(stage).Inc()
}

// RecordFileWritten counts a committed output file.
func (m *Manager) RecordFileWritten() {
	if !m.enabled {
		return
	}
	m.filesWritten.Inc()
}

// MarkSuccess stamps the completion time of a run.
func (m *Manager) MarkSuccess(unixSeconds float64) {
	if !m.enabled {
		return
	}
	m.lastSuccess.Set(unixSeconds)
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in Prometheus text format, for the
// node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
