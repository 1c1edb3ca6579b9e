package ingest

import (
	"sort"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

// DebtReport cartera pendiente por cliente, ordenada por saldo descendente.
type DebtReport struct {
	GeneratedAt time.Time
	Source      string
	Totals      Totals
	Debtors     []entity.CustomerAggregate
}

// NewDebtReport filtra los clientes con saldo > 0 y los ordena (saldo desc, nombre asc).
func NewDebtReport(a *Analysis, generatedAt time.Time) *DebtReport {
	var debtors []entity.CustomerAggregate
	for _, agg := range a.Customers.All() {
		if agg.HasDebt() {
			debtors = append(debtors, agg)
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool {
		if c := debtors[i].UnpaidAmount.Cmp(debtors[j].UnpaidAmount); c != 0 {
			return c > 0
		}
		return debtors[i].Name < debtors[j].Name
	})
	return &DebtReport{
		GeneratedAt: generatedAt,
		Source:      a.Source,
		Totals:      a.Customers.Totals(),
		Debtors:     debtors,
	}
}
