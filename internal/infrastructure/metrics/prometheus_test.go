package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
)

func TestClassifyBatchError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"ok", nil, OutcomeOK},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), OutcomeTimeout},
		{"rejected", fmt.Errorf("neo4j: %w", domain.ErrInvalidInput), OutcomeRejected},
		{"remote", fmt.Errorf("memorygraph: %w", domain.ErrRemoteCall), OutcomeRemote},
		{"unknown", errors.New("boom"), OutcomeRemote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyBatchError(tc.err))
		})
	}
}

func TestObserveBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.ObserveBatch(ingest.KindInvoices, 50, nil, 120*time.Millisecond)
	m.ObserveBatch(ingest.KindInvoices, 50, domain.ErrRemoteCall, time.Second)
	m.ObserveBatch(ingest.KindInvoices, 20, nil, 80*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues(ingest.KindInvoices, OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues(ingest.KindInvoices, OutcomeRemote)))
	assert.Equal(t, 70.0, testutil.ToFloat64(m.items.WithLabelValues(ingest.KindInvoices, OutcomeOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveRun(t *testing.T) {
	m := NewImportMetrics(prometheus.NewRegistry())

	m.ObserveRun(&ingest.ImportReport{DryRun: true})
	m.ObserveRun(&ingest.ImportReport{Relations: ingest.BatchResult{Batches: []ingest.BatchOutcome{{Err: errors.New("x")}}}})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("dry_run", "complete")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("import", "partial")))
}
