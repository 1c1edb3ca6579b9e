package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportRun resumen persistido de una corrida de importación.
type ImportRun struct {
	ID               string
	SourceName       string
	SourceDigest     string // BLAKE2b-256 hex del archivo de entrada
	StartedAt        time.Time
	FinishedAt       time.Time
	DryRun           bool
	Records          int
	Customers        int
	TotalAmount      decimal.Decimal
	UnpaidAmount     decimal.Decimal
	OverdueInvoices  int
	CustomersCreated int
	InvoicesCreated  int
	RelationsCreated int
	FailedBatches    int
}
