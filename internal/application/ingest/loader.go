package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// Columns nombres de columna del archivo de entrada para cada campo de InvoiceRecord.
type Columns struct {
	InvoiceNo     string
	Customer      string
	InvoiceDate   string
	DueDate       string
	Salesperson   string
	Subtotal      string
	Tax           string
	Total         string
	AmountDue     string
	PaymentStatus string
	Status        string
}

// DefaultColumns encabezados del export de facturas de Odoo en vietnamita.
func DefaultColumns() Columns {
	return Columns{
		InvoiceNo:     "Số",
		Customer:      "Hiển thị tên đối tác ở hóa đơn",
		InvoiceDate:   "Ngày hóa đơn",
		DueDate:       "Ngày phải trả",
		Salesperson:   "Nhân viên kinh doanh",
		Subtotal:      "Tổng chưa thuế đã ký",
		Tax:           "Thuế đã ký",
		Total:         "Tổng số đã ký",
		AmountDue:     "Số tiền ký kết",
		PaymentStatus: "Tình trạng thanh toán",
		Status:        "Trạng thái",
	}
}

func (c Columns) names() []string {
	return []string{
		c.InvoiceNo, c.Customer, c.InvoiceDate, c.DueDate, c.Salesperson,
		c.Subtotal, c.Tax, c.Total, c.AmountDue, c.PaymentStatus, c.Status,
	}
}

// ParseStats cuenta las celdas monetarias a las que se aplicó el valor por defecto.
type ParseStats struct {
	EmptyAmounts     int
	MalformedAmounts int
}

// Loader convierte el CSV del export en InvoiceRecords, conservando orden y cantidad de filas.
type Loader struct {
	columns Columns
}

// NewLoader construye el loader para el esquema de columnas indicado.
func NewLoader(columns Columns) *Loader {
	return &Loader{columns: columns}
}

// Load lee todas las filas de r. Un BOM UTF-8 inicial se ignora.
// Falta de columnas obligatorias → *domain.SchemaError. Montos inválidos → 0 (ver ParseStats).
func (l *Loader) Load(r io.Reader) ([]entity.InvoiceRecord, ParseStats, error) {
	var stats ParseStats

	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []entity.InvoiceRecord{}, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("leer encabezado CSV: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i // con encabezados repetidos gana el último
	}
	var missing []string
	for _, name := range l.columns.names() {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, stats, &domain.SchemaError{Missing: missing}
	}

	records := make([]entity.InvoiceRecord, 0, 256)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("leer fila CSV %d: %w", len(records)+2, err)
		}

		cell := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}
		amount := func(name string) invoicing.AmountResult {
			res := invoicing.ParseAmount(cell(name))
			switch res.Outcome {
			case invoicing.AmountEmpty:
				stats.EmptyAmounts++
			case invoicing.AmountMalformed:
				stats.MalformedAmounts++
			}
			return res
		}

		records = append(records, entity.InvoiceRecord{
			InvoiceNo:     cell(l.columns.InvoiceNo),
			Customer:      cell(l.columns.Customer),
			InvoiceDate:   cell(l.columns.InvoiceDate),
			DueDate:       cell(l.columns.DueDate),
			Salesperson:   cell(l.columns.Salesperson),
			Subtotal:      amount(l.columns.Subtotal).Value,
			Tax:           amount(l.columns.Tax).Value,
			Total:         amount(l.columns.Total).Value,
			AmountDue:     amount(l.columns.AmountDue).Value,
			PaymentStatus: cell(l.columns.PaymentStatus),
			Status:        cell(l.columns.Status),
		})
	}
	return records, stats, nil
}
