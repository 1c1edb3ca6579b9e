package ingest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// CustomerAggregates mapa nombre de cliente → agregado, en orden de primera aparición.
// El orden hace deterministas las entidades y relaciones derivadas.
type CustomerAggregates struct {
	order  []string
	byName map[string]*entity.CustomerAggregate
}

// Len cantidad de clientes distintos.
func (a *CustomerAggregates) Len() int { return len(a.order) }

// Get devuelve una copia del agregado del cliente.
func (a *CustomerAggregates) Get(name string) (entity.CustomerAggregate, bool) {
	agg, ok := a.byName[name]
	if !ok {
		return entity.CustomerAggregate{}, false
	}
	return *agg, true
}

// All devuelve copias de todos los agregados en orden de primera aparición.
func (a *CustomerAggregates) All() []entity.CustomerAggregate {
	out := make([]entity.CustomerAggregate, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, *a.byName[name])
	}
	return out
}

// Totals sumas globales sobre todos los clientes.
type Totals struct {
	Invoices        int
	Customers       int
	TotalAmount     decimal.Decimal
	UnpaidAmount    decimal.Decimal
	OverdueInvoices int
}

// Totals calcula los totales del resumen.
func (a *CustomerAggregates) Totals() Totals {
	t := Totals{Customers: len(a.order), TotalAmount: decimal.Zero, UnpaidAmount: decimal.Zero}
	for _, name := range a.order {
		agg := a.byName[name]
		t.Invoices += agg.InvoiceCount
		t.TotalAmount = t.TotalAmount.Add(agg.TotalAmount)
		t.UnpaidAmount = t.UnpaidAmount.Add(agg.UnpaidAmount)
		t.OverdueInvoices += agg.OverdueCount
	}
	return t
}

// newCustomerAggregate fábrica explícita: se invoca una sola vez por cliente nuevo.
func newCustomerAggregate(name string) *entity.CustomerAggregate {
	return &entity.CustomerAggregate{
		Name:         name,
		TotalAmount:  decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
}

// Aggregate pliega los registros en una sola pasada.
//
// Vencida: no pagada, DueDate convertible y estrictamente anterior a today.
// El vendedor del agregado es el de la última fila procesada del cliente (incluso vacío).
func Aggregate(records []entity.InvoiceRecord, today time.Time) *CustomerAggregates {
	out := &CustomerAggregates{byName: make(map[string]*entity.CustomerAggregate)}

	for _, inv := range records {
		agg, ok := out.byName[inv.Customer]
		if !ok {
			agg = newCustomerAggregate(inv.Customer)
			out.byName[inv.Customer] = agg
			out.order = append(out.order, inv.Customer)
		}

		agg.InvoiceCount++
		agg.TotalAmount = agg.TotalAmount.Add(inv.Total)
		agg.Salesperson = inv.Salesperson

		if agg.InvoiceCount == 1 || inv.InvoiceDate < agg.FirstInvoice {
			agg.FirstInvoice = inv.InvoiceDate
		}
		if agg.InvoiceCount == 1 || inv.InvoiceDate > agg.LastInvoice {
			agg.LastInvoice = inv.InvoiceDate
		}

		if inv.IsUnpaid() {
			agg.UnpaidCount++
			agg.UnpaidAmount = agg.UnpaidAmount.Add(inv.AmountDue)
			if _, overdue := invoicing.DaysOverdue(inv.DueDate, today); overdue {
				agg.OverdueCount++
			}
		} else {
			agg.PaidCount++
		}
	}
	return out
}
