package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// TotalsDTO totales del archivo importado. Los montos van como decimal (string JSON) y formateados.
type TotalsDTO struct {
	Invoices         int             `json:"invoices"`
	Customers        int             `json:"customers"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TotalAmountText  string          `json:"total_amount_text"`
	UnpaidAmount     decimal.Decimal `json:"unpaid_amount"`
	UnpaidAmountText string          `json:"unpaid_amount_text"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	MalformedAmounts int             `json:"malformed_amounts"`
}

// FailedBatchDTO lote no confirmado por el grafo.
type FailedBatchDTO struct {
	Index int    `json:"index"` // 1-based
	From  int    `json:"from"`  // 1-based, inclusivo
	To    int    `json:"to"`
	Error string `json:"error"`
}

// BatchDTO resultado de enviar una secuencia.
type BatchDTO struct {
	Kind    string           `json:"kind"`
	Total   int              `json:"total"`
	Created int              `json:"created"`
	Batches int              `json:"batches"`
	Failed  []FailedBatchDTO `json:"failed,omitempty"`
}

// SearchCheckDTO verificación posterior a la importación.
type SearchCheckDTO struct {
	Query string   `json:"query"`
	Found int      `json:"found"`
	Top   []string `json:"top,omitempty"`
	Error string   `json:"error,omitempty"`
}

// ImportReportDTO respuesta de POST /api/imports.
type ImportReportDTO struct {
	RunID      string          `json:"run_id"`
	Source     string          `json:"source"`
	Digest     string          `json:"digest"`
	DryRun     bool            `json:"dry_run"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Totals     TotalsDTO       `json:"totals"`
	Customers  BatchDTO        `json:"customers"`
	Invoices   BatchDTO        `json:"invoices"`
	Relations  BatchDTO        `json:"relations"`
	Entities   int             `json:"entities_created"`
	Search     *SearchCheckDTO `json:"search,omitempty"`
}

// ImportRunDTO fila del historial (GET /api/imports).
type ImportRunDTO struct {
	ID               string          `json:"id"`
	SourceName       string          `json:"source_name"`
	SourceDigest     string          `json:"source_digest"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       time.Time       `json:"finished_at"`
	DryRun           bool            `json:"dry_run"`
	Records          int             `json:"records"`
	Customers        int             `json:"customers"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	UnpaidAmount     decimal.Decimal `json:"unpaid_amount"`
	OverdueInvoices  int             `json:"overdue_invoices"`
	CustomersCreated int             `json:"customers_created"`
	InvoicesCreated  int             `json:"invoices_created"`
	RelationsCreated int             `json:"relations_created"`
	FailedBatches    int             `json:"failed_batches"`
}

// ImportRunListDTO respuesta paginada del historial.
type ImportRunListDTO struct {
	Items []ImportRunDTO `json:"items"`
	Limit int            `json:"limit"`
}

// NewImportReportDTO mapea el reporte del caso de uso.
func NewImportReportDTO(rep *ingest.ImportReport) ImportReportDTO {
	out := ImportReportDTO{
		RunID:      rep.RunID,
		DryRun:     rep.DryRun,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Totals: TotalsDTO{
			Invoices:         rep.Totals.Invoices,
			Customers:        rep.Totals.Customers,
			TotalAmount:      rep.Totals.TotalAmount,
			TotalAmountText:  invoicing.FormatVND(rep.Totals.TotalAmount),
			UnpaidAmount:     rep.Totals.UnpaidAmount,
			UnpaidAmountText: invoicing.FormatVND(rep.Totals.UnpaidAmount),
			OverdueInvoices:  rep.Totals.OverdueInvoices,
		},
		Customers: newBatchDTO(rep.Customers),
		Invoices:  newBatchDTO(rep.Invoices),
		Relations: newBatchDTO(rep.Relations),
		Entities:  rep.EntitiesCreated(),
	}
	if a := rep.Analysis; a != nil {
		out.Source = a.Source
		out.Digest = a.Digest
		out.Totals.MalformedAmounts = a.Stats.MalformedAmounts
	}
	if s := rep.Search; s != nil {
		sc := &SearchCheckDTO{Query: s.Query, Found: s.Found}
		for _, e := range s.Top {
			sc.Top = append(sc.Top, e.Name+": "+e.EntityType)
		}
		if s.Err != nil {
			sc.Error = s.Err.Error()
		}
		out.Search = sc
	}
	return out
}

func newBatchDTO(r ingest.BatchResult) BatchDTO {
	out := BatchDTO{Kind: r.Kind, Total: r.Total, Created: r.Created, Batches: len(r.Batches)}
	for _, f := range r.Failed() {
		out.Failed = append(out.Failed, FailedBatchDTO{
			Index: f.Index + 1,
			From:  f.Start + 1,
			To:    f.End,
			Error: f.Err.Error(),
		})
	}
	return out
}

// NewImportRunDTO mapea una fila del historial.
func NewImportRunDTO(r *entity.ImportRun) ImportRunDTO {
	return ImportRunDTO{
		ID:               r.ID,
		SourceName:       r.SourceName,
		SourceDigest:     r.SourceDigest,
		StartedAt:        r.StartedAt,
		FinishedAt:       r.FinishedAt,
		DryRun:           r.DryRun,
		Records:          r.Records,
		Customers:        r.Customers,
		TotalAmount:      r.TotalAmount,
		UnpaidAmount:     r.UnpaidAmount,
		OverdueInvoices:  r.OverdueInvoices,
		CustomersCreated: r.CustomersCreated,
		InvoicesCreated:  r.InvoicesCreated,
		RelationsCreated: r.RelationsCreated,
		FailedBatches:    r.FailedBatches,
	}
}
