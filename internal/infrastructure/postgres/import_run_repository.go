package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
)

var _ repository.ImportRunRepository = (*ImportRunRepo)(nil)

// DefaultListLimit límite de List cuando limit <= 0.
const DefaultListLimit = 20

const importRunsDDL = `
CREATE TABLE IF NOT EXISTS import_runs (
	id                 UUID PRIMARY KEY,
	source_name        TEXT        NOT NULL DEFAULT '',
	source_digest      TEXT        NOT NULL DEFAULT '',
	started_at         TIMESTAMPTZ NOT NULL,
	finished_at        TIMESTAMPTZ NOT NULL,
	dry_run            BOOLEAN     NOT NULL DEFAULT FALSE,
	records            INTEGER     NOT NULL,
	customers          INTEGER     NOT NULL,
	total_amount       NUMERIC(20,2) NOT NULL,
	unpaid_amount      NUMERIC(20,2) NOT NULL,
	overdue_invoices   INTEGER     NOT NULL,
	customers_created  INTEGER     NOT NULL,
	invoices_created   INTEGER     NOT NULL,
	relations_created  INTEGER     NOT NULL,
	failed_batches     INTEGER     NOT NULL
);
CREATE INDEX IF NOT EXISTS import_runs_started_at_idx ON import_runs (started_at DESC);
`

const importRunColumns = `id, source_name, source_digest, started_at, finished_at, dry_run, records, customers,
	total_amount, unpaid_amount, overdue_invoices, customers_created, invoices_created, relations_created, failed_batches`

// ImportRunRepo implementación de ImportRunRepository (usable con pool o tx).
type ImportRunRepo struct {
	q Querier
}

// NewImportRunRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImportRunRepository(q Querier) *ImportRunRepo {
	return &ImportRunRepo{q: q}
}

// EnsureSchema crea la tabla import_runs si no existe.
func (r *ImportRunRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, importRunsDDL); err != nil {
		return fmt.Errorf("crear tabla import_runs: %w", err)
	}
	return nil
}

// Save inserta la corrida. Un ID vacío se completa con un UUID nuevo.
func (r *ImportRunRepo) Save(ctx context.Context, run *entity.ImportRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		return fmt.Errorf("import run id %q: %w", run.ID, domain.ErrInvalidInput)
	}

	query := `INSERT INTO import_runs (` + importRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		run.ID, run.SourceName, run.SourceDigest, run.StartedAt, run.FinishedAt, run.DryRun,
		run.Records, run.Customers, run.TotalAmount, run.UnpaidAmount, run.OverdueInvoices,
		run.CustomersCreated, run.InvoicesCreated, run.RelationsCreated, run.FailedBatches,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("import run %s duplicado: %w", run.ID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert import run: %w", err)
	}
	return nil
}

// List devuelve las últimas corridas, más recientes primero.
func (r *ImportRunRepo) List(ctx context.Context, limit int) ([]*entity.ImportRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := r.q.Query(ctx, `SELECT `+importRunColumns+` FROM import_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ImportRun
	for rows.Next() {
		var (
			run entity.ImportRun
			id  uuid.UUID
		)
		if err := rows.Scan(
			&id, &run.SourceName, &run.SourceDigest, &run.StartedAt, &run.FinishedAt, &run.DryRun,
			&run.Records, &run.Customers, &run.TotalAmount, &run.UnpaidAmount, &run.OverdueInvoices,
			&run.CustomersCreated, &run.InvoicesCreated, &run.RelationsCreated, &run.FailedBatches,
		); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		run.ID = id.String()
		list = append(list, &run)
	}
	return list, rows.Err()
}
