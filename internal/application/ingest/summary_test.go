package ingest_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
)

func TestWriteSummary_Corrida(t *testing.T) {
	store := &fakeStore{failEntityCall: map[int]bool{1: true}, searchResult: newEntities(2)}
	rep, err := newUseCase(store, nil).Run(context.Background(), bytes.NewReader(threeRecords()), ingest.ImportOptions{
		SourceName:  "invoices.csv",
		SearchQuery: "quá hạn",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, ingest.WriteSummary(&out, rep))
	s := out.String()

	assert.Contains(t, s, "Memory Graph - Invoice Data Import")
	assert.Contains(t, s, "Source:            invoices.csv")
	assert.Contains(t, s, "Total invoices:    3")
	assert.Contains(t, s, "Unpaid amount:     2.2 triệu VND")
	assert.Contains(t, s, "Overdue invoices:  1")
	assert.Contains(t, s, "Created customers: 0 of 2")
	assert.Contains(t, s, "batch 1 (1-2) failed")
	assert.Contains(t, s, "Entities:  3")
	assert.Contains(t, s, "Relations: 5")
	assert.Contains(t, s, `Found 2 entities matching "quá hạn"`)
	assert.NotContains(t, s, "Dry run")
}

func TestWriteSummary_DryRun(t *testing.T) {
	rep, err := newUseCase(&fakeStore{}, nil).Run(context.Background(), bytes.NewReader(threeRecords()), ingest.ImportOptions{DryRun: true})
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, ingest.WriteSummary(&out, rep))

	assert.Contains(t, out.String(), "Dry run: nothing was sent")
	assert.Contains(t, out.String(), "Relations to create: 5")
	assert.NotContains(t, out.String(), "Entities:")
}
