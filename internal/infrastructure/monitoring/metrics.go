package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds the Prometheus metrics of one launcher run. Each instance owns
// its registry so runs and tests never share state.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	StepDuration *prometheus.GaugeVec
	StepErrors   *prometheus.CounterVec

	// TV metrics
	WakeEvents prometheus.Counter
	ScreenOn   prometheus.Gauge

	// Result metrics
	Decisions   *prometheus.CounterVec
	RunDuration prometheus.Gauge
	RunSuccess  prometheus.Gauge
	LastRun     prometheus.Gauge

	startTime time.Time
	mu        sync.Mutex
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry:  reg,
		startTime: time.Now(),

		StepDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spotifytv_step_duration_seconds",
				Help: "Duration of each pipeline step in the last run",
			},
			[]string{"step", "status"},
		),
		StepErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifytv_step_errors_total",
				Help: "Pipeline steps that failed, by error kind",
			},
			[]string{"step", "kind"},
		),
		WakeEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spotifytv_wake_events_total",
				Help: "Wake key events sent to the TV",
			},
		),
		ScreenOn: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifytv_screen_on",
				Help: "Whether the TV screen reported awake (1) or asleep (0)",
			},
		),
		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spotifytv_decisions_total",
				Help: "Playback decisions applied to the target device",
			},
			[]string{"decision"},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifytv_run_duration_seconds",
				Help: "Wall time of the last run",
			},
		),
		RunSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifytv_run_success",
				Help: "Whether the last run succeeded",
			},
		),
		LastRun: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spotifytv_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}
}

// Registry returns the registry holding this run's metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStep records a step's duration. kind is ignored on success.
func (m *Metrics) RecordStep(step string, duration time.Duration, err error, kind string) {
	status := OutcomeSuccess
	if err != nil {
		status = OutcomeFailure
		m.StepErrors.WithLabelValues(step, kind).Inc()
	}
	m.StepDuration.WithLabelValues(step, status).Set(duration.Seconds())
}

// RecordScreen records the wake loop result.
func (m *Metrics) RecordScreen(on bool) {
	if on {
		m.ScreenOn.Set(1)
	} else {
		m.ScreenOn.Set(0)
	}
}

// IncWakeEvents counts one wake key event.
func (m *Metrics) IncWakeEvents() {
	m.WakeEvents.Inc()
}

// RecordDecision counts an applied decision.
func (m *Metrics) RecordDecision(decision string) {
	m.Decisions.WithLabelValues(decision).Inc()
}

// Finish records the run's outcome and wall time.
func (m *Metrics) Finish(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RunDuration.Set(time.Since(m.startTime).Seconds())
	if success {
		m.RunSuccess.Set(1)
	} else {
		m.RunSuccess.Set(0)
	}
	m.LastRun.SetToCurrentTime()
}

// WriteTextfile writes all metrics in the text exposition format, for
// node_exporter's textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
