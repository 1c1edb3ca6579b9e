// Package ingest implementa el pipeline de importación de facturas al grafo de conocimiento:
// carga del CSV, agregación por cliente, construcción de entidades/relaciones y envío por lotes.
//
// Flujo (estrictamente secuencial, sin paralelismo entre ni dentro de etapas):
//
//	CSV → []InvoiceRecord → CustomerAggregates → entidades/relaciones → GraphStore
package ingest

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// searchPreview cantidad de resultados de la verificación que se conservan en el reporte.
const searchPreview = 3

// ImportConfig parámetros del caso de uso.
type ImportConfig struct {
	Columns           Columns
	EntityBatchSize   int
	RelationBatchSize int
	Clock             func() time.Time // nil = time.Now
}

// ImportOptions opciones de una corrida.
type ImportOptions struct {
	SourceName  string
	Limit       int  // limita facturas y relaciones issued_to a las primeras N; 0 = todas
	DryRun      bool // construye todo pero no llama al grafo
	SearchQuery string
	SearchLimit int
}

// Analysis resultado de cargar y agregar un archivo (sin llamadas remotas).
type Analysis struct {
	Source    string
	Digest    string
	Today     time.Time
	Records   []entity.InvoiceRecord
	Stats     ParseStats
	Customers *CustomerAggregates
}

// SearchCheck resultado de la verificación search_nodes posterior a la importación.
type SearchCheck struct {
	Query string
	Found int
	Top   []entity.GraphEntity
	Err   error
}

// ImportReport resumen de una corrida. Un lote fallido no convierte la corrida en error:
// el resultado parcial se expone por lote.
type ImportReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Totals     Totals
	Customers  BatchResult
	Invoices   BatchResult
	Relations  BatchResult
	Search     *SearchCheck
	Analysis   *Analysis
}

// EntitiesCreated clientes + facturas confirmados.
func (r *ImportReport) EntitiesCreated() int {
	return r.Customers.Created + r.Invoices.Created
}

// FailedBatches total de lotes no confirmados.
func (r *ImportReport) FailedBatches() int {
	return len(r.Customers.Failed()) + len(r.Invoices.Failed()) + len(r.Relations.Failed())
}

// ToRun convierte el reporte al registro de historial.
func (r *ImportReport) ToRun() *entity.ImportRun {
	return &entity.ImportRun{
		ID:               r.RunID,
		SourceName:       r.Analysis.Source,
		SourceDigest:     r.Analysis.Digest,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		DryRun:           r.DryRun,
		Records:          len(r.Analysis.Records),
		Customers:        r.Totals.Customers,
		TotalAmount:      r.Totals.TotalAmount,
		UnpaidAmount:     r.Totals.UnpaidAmount,
		OverdueInvoices:  r.Totals.OverdueInvoices,
		CustomersCreated: r.Customers.Created,
		InvoicesCreated:  r.Invoices.Created,
		RelationsCreated: r.Relations.Created,
		FailedBatches:    r.FailedBatches(),
	}
}

// ImportUseCase orquesta carga → agregación → construcción → envío.
type ImportUseCase struct {
	loader    *Loader
	store     GraphStore
	submitter *BatchSubmitter
	history   repository.ImportRunRepository // nil = sin historial
	clock     func() time.Time
	log       *logger.Logger
}

// NewImportUseCase construye el caso de uso. history y observer pueden ser nil.
func NewImportUseCase(
	store GraphStore,
	history repository.ImportRunRepository,
	observer BatchObserver,
	cfg ImportConfig,
	log *logger.Logger,
) *ImportUseCase {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	log = log.Component("ingest")
	return &ImportUseCase{
		loader:    NewLoader(cfg.Columns),
		store:     store,
		submitter: NewBatchSubmitter(store, cfg.EntityBatchSize, cfg.RelationBatchSize, observer, log),
		history:   history,
		clock:     clock,
		log:       log,
	}
}

// Analyze carga y agrega el archivo. Solo un error de esquema o de lectura es fatal,
// además de la cancelación de ctx (por ejemplo, el cliente HTTP se desconectó).
func (uc *ImportUseCase) Analyze(ctx context.Context, r io.Reader, source string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analizar %s: %w", source, err)
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("inicializar digest: %w", err)
	}

	records, stats, err := uc.loader.Load(io.TeeReader(r, h))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analizar %s: %w", source, err)
	}
	if stats.MalformedAmounts > 0 {
		uc.log.Warn().
			Int("malformed_amounts", stats.MalformedAmounts).
			Msg("montos no convertibles tomados como 0; los totales pueden estar subestimados")
	}

	today := invoicing.DateOnly(uc.clock())
	customers := Aggregate(records, today)

	uc.log.Info().
		Str("source", source).
		Int("records", len(records)).
		Int("customers", customers.Len()).
		Msg("archivo analizado")

	return &Analysis{
		Source:    source,
		Digest:    hex.EncodeToString(h.Sum(nil)),
		Today:     today,
		Records:   records,
		Stats:     stats,
		Customers: customers,
	}, nil
}

// Run ejecuta la importación completa. Los fallos por lote quedan en el reporte;
// solo se devuelve error si el archivo no se puede cargar (esquema, lectura).
func (uc *ImportUseCase) Run(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportReport, error) {
	started := uc.clock()

	analysis, err := uc.Analyze(ctx, r, opts.SourceName)
	if err != nil {
		return nil, err
	}

	builder := NewEntityBuilder(analysis.Today)
	aggregates := analysis.Customers.All()

	invoices := analysis.Records
	if opts.Limit > 0 && opts.Limit < len(invoices) {
		invoices = invoices[:opts.Limit]
	}

	customerEntities := builder.CustomerEntities(aggregates)
	invoiceEntities := builder.InvoiceEntities(invoices)
	relations := builder.Relations(invoices, aggregates)

	report := &ImportReport{
		RunID:     uuid.NewString(),
		StartedAt: started,
		DryRun:    opts.DryRun,
		Totals:    analysis.Customers.Totals(),
		Analysis:  analysis,
	}

	if opts.DryRun {
		report.Customers = BatchResult{Kind: KindCustomers, Total: len(customerEntities)}
		report.Invoices = BatchResult{Kind: KindInvoices, Total: len(invoiceEntities)}
		report.Relations = BatchResult{Kind: KindRelations, Total: len(relations)}
	} else {
		report.Customers = uc.submitter.SubmitEntities(ctx, KindCustomers, customerEntities)
		report.Invoices = uc.submitter.SubmitEntities(ctx, KindInvoices, invoiceEntities)
		report.Relations = uc.submitter.SubmitRelations(ctx, relations)

		if opts.SearchQuery != "" {
			report.Search = uc.searchCheck(ctx, opts.SearchQuery, opts.SearchLimit)
		}
	}

	report.FinishedAt = uc.clock()

	uc.log.Info().
		Str("run_id", report.RunID).
		Bool("dry_run", report.DryRun).
		Int("customers_created", report.Customers.Created).
		Int("invoices_created", report.Invoices.Created).
		Int("relations_created", report.Relations.Created).
		Int("failed_batches", report.FailedBatches()).
		Msg("importación finalizada")

	if uc.history != nil {
		if err := uc.history.Save(ctx, report.ToRun()); err != nil {
			uc.log.Error().Err(err).Str("run_id", report.RunID).Msg("guardar historial de importación")
		}
	}
	return report, nil
}

// DebtReport carga el archivo y arma el reporte de cartera sin tocar el grafo.
func (uc *ImportUseCase) DebtReport(ctx context.Context, r io.Reader, source string) (*DebtReport, error) {
	analysis, err := uc.Analyze(ctx, r, source)
	if err != nil {
		return nil, err
	}
	return NewDebtReport(analysis, uc.clock()), nil
}

// searchCheck llama search_nodes si el store lo soporta. Nunca es fatal.
func (uc *ImportUseCase) searchCheck(ctx context.Context, query string, limit int) *SearchCheck {
	searcher, ok := uc.store.(GraphSearcher)
	if !ok {
		return nil
	}
	check := &SearchCheck{Query: query}
	found, err := searcher.SearchNodes(ctx, query, limit)
	if err != nil {
		check.Err = err
		uc.log.Warn().Err(err).Str("query", query).Msg("verificación search_nodes fallida")
		return check
	}
	check.Found = len(found)
	check.Top = found[:min(searchPreview, len(found))]
	uc.log.Info().Str("query", query).Int("found", check.Found).Msg("verificación search_nodes")
	return check
}
