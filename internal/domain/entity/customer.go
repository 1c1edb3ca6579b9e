package entity

import "github.com/shopspring/decimal"

// CustomerAggregate estadísticas acumuladas de un cliente durante una corrida.
//
// Invariante: OverdueCount <= UnpaidCount <= InvoiceCount.
// FirstInvoice/LastInvoice son mínimo/máximo por orden lexicográfico (correcto solo para ISO-8601 con ceros).
type CustomerAggregate struct {
	Name         string
	InvoiceCount int
	TotalAmount  decimal.Decimal
	UnpaidAmount decimal.Decimal
	PaidCount    int
	UnpaidCount  int
	OverdueCount int
	Salesperson  string // la última fila procesada gana
	FirstInvoice string
	LastInvoice  string
}

// HasDebt indica si el cliente tiene saldo pendiente.
func (a CustomerAggregate) HasDebt() bool {
	return a.UnpaidAmount.IsPositive()
}
