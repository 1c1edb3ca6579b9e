package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
)

var _ ingest.BatchObserver = (*ImportMetrics)(nil)

// Resultados de un lote (label "outcome").
const (
	OutcomeOK       = "ok"
	OutcomeRemote   = "remote_error"
	OutcomeTimeout  = "timeout"
	OutcomeRejected = "rejected"
)

// ImportMetrics contadores e histograma de los envíos por lote.
type ImportMetrics struct {
	batches  *prometheus.CounterVec
	items    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewImportMetrics registra las métricas en registerer (nil = prometheus.DefaultRegisterer).
func NewImportMetrics(registerer prometheus.Registerer) *ImportMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &ImportMetrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoice_import",
			Name:      "batches_total",
			Help:      "Batches sent to the graph store, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoice_import",
			Name:      "items_total",
			Help:      "Entities or relations sent in batches, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invoice_import",
			Name:      "batch_duration_seconds",
			Help:      "Latency of one graph store call.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoice_import",
			Name:      "runs_total",
			Help:      "Import runs, by mode and whether any batch failed.",
		}, []string{"mode", "status"}),
	}
	registerer.MustRegister(m.batches, m.items, m.duration, m.runs)
	return m
}

// ObserveBatch registra el resultado de una llamada al grafo.
func (m *ImportMetrics) ObserveBatch(kind string, size int, err error, elapsed time.Duration) {
	outcome := ClassifyBatchError(err)
	m.batches.WithLabelValues(kind, outcome).Inc()
	m.items.WithLabelValues(kind, outcome).Add(float64(size))
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveRun cuenta una corrida terminada.
func (m *ImportMetrics) ObserveRun(rep *ingest.ImportReport) {
	mode := "import"
	if rep.DryRun {
		mode = "dry_run"
	}
	status := "complete"
	if rep.FailedBatches() > 0 {
		status = "partial"
	}
	m.runs.WithLabelValues(mode, status).Inc()
}

// ClassifyBatchError traduce el error de un lote a un label de baja cardinalidad.
func ClassifyBatchError(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeTimeout
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeRejected
	default:
		return OutcomeRemote
	}
}
