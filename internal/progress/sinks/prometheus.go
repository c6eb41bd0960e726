package sinks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/progress"
)

// PrometheusSink exports import progress metrics. It owns the collectors for
// imports started/completed/running, processed rows, and runtime.
type PrometheusSink struct {
	importsStarted   prometheus.Counter
	importsCompleted *prometheus.CounterVec
	importsRunning   prometheus.Gauge
	importRuntime    *prometheus.HistogramVec
	rowsProcessed    prometheus.Counter

	tracker *importTracker
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		importsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_imports_started_total",
			Help: "Imports the console started following.",
		}),
		importsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_imports_finished_total",
			Help: "Imports that reached a terminal status partitioned by result.",
		}, []string{"result"}),
		importsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_imports_running",
			Help: "Imports currently being followed.",
		}),
		importRuntime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_import_runtime_seconds",
			Help:    "Time from first observed event to terminal status.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"result"}),
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_import_rows_processed_total",
			Help: "Rows reported as processed across all imports.",
		}),
		tracker: newImportTracker(),
	}
	for _, collector := range []prometheus.Collector{
		s.importsStarted,
		s.importsCompleted,
		s.importsRunning,
		s.importRuntime,
		s.rowsProcessed,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from the batch. It is safe for concurrent use.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		s.consumeEvent(evt)
	}
	return nil
}

func (s *PrometheusSink) consumeEvent(evt progress.Event) {
	started, delta, runtime, finished := s.tracker.observe(evt)
	if started {
		s.importsStarted.Inc()
		s.importsRunning.Inc()
	}
	if delta > 0 {
		s.rowsProcessed.Add(float64(delta))
	}
	if !finished {
		return
	}
	result := "completed"
	if evt.Status == catalog.JobFailed {
		result = "failed"
	}
	s.importsCompleted.WithLabelValues(result).Inc()
	s.importsRunning.Dec()
	if runtime > 0 {
		s.importRuntime.WithLabelValues(result).Observe(runtime.Seconds())
	}
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}

type importState struct {
	firstSeen time.Time
	processed int64
	finished  bool
}

type importTracker struct {
	mu   sync.Mutex
	jobs map[string]*importState
}

func newImportTracker() *importTracker {
	return &importTracker{jobs: make(map[string]*importState)}
}

// observe records evt and reports whether it started the job, how many rows
// were newly processed, the runtime if it finished the job, and whether it did.
func (t *importTracker) observe(evt progress.Event) (bool, int64, time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.jobs[evt.JobID]
	if !ok {
		st = &importState{firstSeen: evt.TS}
		t.jobs[evt.JobID] = st
	}
	if st.finished {
		return false, 0, 0, false
	}
	var delta int64
	if evt.ProcessedRows > st.processed {
		delta = evt.ProcessedRows - st.processed
		st.processed = evt.ProcessedRows
	}
	if !evt.Status.IsTerminal() {
		return !ok, delta, 0, false
	}
	st.finished = true
	return !ok, delta, evt.TS.Sub(st.firstSeen), true
}
