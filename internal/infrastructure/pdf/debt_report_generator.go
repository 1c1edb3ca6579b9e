// Package pdf genera el reporte de cartera (clientes con saldo pendiente) en A4.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + archivo origen │ fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: facturas / clientes / total / saldo / vencidas     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Cliente | Vendedor | Facturas | Vencidas | Saldo │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/entity"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

var _ ingest.DebtReportGenerator = (*DebtReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// DebtReportGenerator implementa ingest.DebtReportGenerator usando Maroto v2.
type DebtReportGenerator struct {
	author string
}

// NewDebtReportGenerator construye el generador.
func NewDebtReportGenerator(author string) *DebtReportGenerator {
	return &DebtReportGenerator{author: author}
}

// GenerateDebtReport genera el PDF y devuelve sus bytes.
func (g *DebtReportGenerator) GenerateDebtReport(_ context.Context, report *ingest.DebtReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte nil")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Debt report", true).
		WithAuthor(foldASCII(g.author), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Totals))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Debtors) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No customers with outstanding debt.", props.Text{Size: 9, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(debtorRows(report.Debtors)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *ingest.DebtReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("DEBT REPORT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Source: "+nonEmpty(foldASCII(report.Source), "-"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+report.GeneratedAt.Format("2006-01-02 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(t ingest.Totals) core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Center, Color: c}),
		)
	}
	return row.New(14).Add(
		cell("Invoices", strconv.Itoa(t.Invoices), nil),
		cell("Customers", strconv.Itoa(t.Customers), nil),
		col.New(3).Add(
			text.New("Total value", props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(money(t.TotalAmount), props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Center}),
		),
		col.New(3).Add(
			text.New("Unpaid", props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(money(t.UnpaidAmount), props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Align: align.Center, Color: colorDanger}),
		),
		cell("Overdue", strconv.Itoa(t.OverdueInvoices), colorDanger),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Customer", 4, align.Left),
		h("Salesperson", 2, align.Left),
		h("Unpaid inv.", 1, align.Center),
		h("Overdue", 1, align.Center),
		h("Outstanding", 3, align.Right),
	)
}

// debtorRows una fila por cliente, en el orden del reporte.
func debtorRows(debtors []entity.CustomerAggregate) []core.Row {
	out := make([]core.Row, 0, len(debtors))
	for i, d := range debtors {
		overdue := props.Text{Size: 8, Align: align.Center, Top: 1}
		if d.OverdueCount > 0 {
			overdue.Color = colorDanger
			overdue.Style = fontstyle.Bold
		}
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(foldASCII(d.Name), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(foldASCII(d.Salesperson), "-"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(1).Add(text.New(strconv.Itoa(d.UnpaidCount), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(d.OverdueCount), overdue)),
			col.New(3).Add(text.New(money(d.UnpaidAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Customers sorted by outstanding amount. Overdue = unpaid with due date before the report date.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func money(d decimal.Decimal) string {
	return foldASCII(invoicing.FormatVND(d))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// foldASCII quita diacríticos (las fuentes estándar del PDF solo cubren Latin-1).
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return '?'
		}
		return r
	}, out)
}
