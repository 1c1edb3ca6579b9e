package ingest_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"time"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
)

// fixedToday fecha de referencia de todos los tests (el vencimiento depende del reloj).
var fixedToday = time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedToday }

var errRemote = errors.New("remote: 500")

// fakeStore GraphStore en memoria que registra cada llamada y puede fallar en llamadas concretas (1-based).
type fakeStore struct {
	entityCalls      [][]entity.GraphEntity
	relationCalls    [][]entity.GraphRelation
	failEntityCall   map[int]bool
	failRelationCall map[int]bool

	searchQuery  string
	searchResult []entity.GraphEntity
	searchErr    error
}

func (f *fakeStore) CreateEntities(_ context.Context, entities []entity.GraphEntity) error {
	f.entityCalls = append(f.entityCalls, entities)
	if f.failEntityCall[len(f.entityCalls)] {
		return errRemote
	}
	return nil
}

func (f *fakeStore) CreateRelations(_ context.Context, relations []entity.GraphRelation) error {
	f.relationCalls = append(f.relationCalls, relations)
	if f.failRelationCall[len(f.relationCalls)] {
		return errRemote
	}
	return nil
}

func (f *fakeStore) SearchNodes(_ context.Context, query string, _ int) ([]entity.GraphEntity, error) {
	f.searchQuery = query
	return f.searchResult, f.searchErr
}

// fakeHistory ImportRunRepository en memoria.
type fakeHistory struct {
	saved []*entity.ImportRun
	err   error
}

func (h *fakeHistory) Save(_ context.Context, run *entity.ImportRun) error {
	h.saved = append(h.saved, run)
	return h.err
}

func (h *fakeHistory) List(_ context.Context, limit int) ([]*entity.ImportRun, error) {
	return h.saved, nil
}

// row fila del CSV de prueba en el orden de csvHeader.
type row struct {
	no, customer, invDate, dueDate, sales, subtotal, tax, total, due, payment, status string
}

func csvHeader() []string {
	c := ingest.DefaultColumns()
	return []string{
		c.InvoiceNo, c.Customer, c.InvoiceDate, c.DueDate, c.Salesperson,
		c.Subtotal, c.Tax, c.Total, c.AmountDue, c.PaymentStatus, c.Status,
	}
}

// buildCSV arma un export con encabezado estándar.
func buildCSV(rows ...row) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(csvHeader())
	for _, r := range rows {
		_ = w.Write([]string{
			r.no, r.customer, r.invDate, r.dueDate, r.sales,
			r.subtotal, r.tax, r.total, r.due, r.payment, r.status,
		})
	}
	w.Flush()
	return buf.Bytes()
}

// threeRecords escenario de extremo a extremo: A con una pagada y una vencida, B pagada.
func threeRecords() []byte {
	return buildCSV(
		row{"INV/001", "A", "2024-01-10", "2024-02-10", "Lan", "1,000,000", "100,000", "1,100,000", "0", entity.PaymentStatusPaid, "posted"},
		row{"INV/002", "A", "2024-05-01", "2024-06-01", "Lan", "2,000,000", "200,000", "2,200,000", "2,200,000", entity.PaymentStatusUnpaid, "posted"},
		row{"INV/003", "B", "2024-03-03", "2024-04-03", "Minh", "500,000", "50,000", "550,000", "0", entity.PaymentStatusPaid, "posted"},
	)
}

func newEntities(n int) []entity.GraphEntity {
	out := make([]entity.GraphEntity, n)
	for i := range out {
		out[i] = entity.GraphEntity{Name: "E" + string(rune('A'+i%26)), EntityType: entity.EntityTypeInvoice}
	}
	return out
}
