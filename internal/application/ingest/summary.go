package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/invoice-graph-importer/internal/domain/invoicing"
)

// WriteSummary imprime el resumen de consola de una corrida.
func WriteSummary(w io.Writer, rep *ImportReport) error {
	rule := strings.Repeat("=", 60)
	var b strings.Builder

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Memory Graph - Invoice Data Import")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Source:            %s\n", rep.Analysis.Source)
	fmt.Fprintf(&b, "Total invoices:    %d\n", rep.Totals.Invoices)
	fmt.Fprintf(&b, "Total customers:   %d\n", rep.Totals.Customers)
	fmt.Fprintf(&b, "Total value:       %s\n", invoicing.FormatVND(rep.Totals.TotalAmount))
	fmt.Fprintf(&b, "Unpaid amount:     %s\n", invoicing.FormatVND(rep.Totals.UnpaidAmount))
	fmt.Fprintf(&b, "Overdue invoices:  %d\n", rep.Totals.OverdueInvoices)
	if s := rep.Analysis.Stats; s.MalformedAmounts > 0 {
		fmt.Fprintf(&b, "Malformed amounts: %d (counted as 0)\n", s.MalformedAmounts)
	}
	fmt.Fprintln(&b)

	if rep.DryRun {
		fmt.Fprintln(&b, "Dry run: nothing was sent")
		fmt.Fprintf(&b, "  Customers to create: %d\n", rep.Customers.Total)
		fmt.Fprintf(&b, "  Invoices to create:  %d\n", rep.Invoices.Total)
		fmt.Fprintf(&b, "  Relations to create: %d\n", rep.Relations.Total)
	} else {
		for _, r := range []BatchResult{rep.Customers, rep.Invoices, rep.Relations} {
			fmt.Fprintf(&b, "Created %-10s %d of %d\n", r.Kind+":", r.Created, r.Total)
			for _, f := range r.Failed() {
				fmt.Fprintf(&b, "  batch %d (%d-%d) failed: %v\n", f.Index+1, f.Start+1, f.End, f.Err)
			}
		}
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Entities:  %d\n", rep.EntitiesCreated())
		fmt.Fprintf(&b, "Relations: %d\n", rep.Relations.Created)
	}

	if s := rep.Search; s != nil {
		fmt.Fprintln(&b)
		if s.Err != nil {
			fmt.Fprintf(&b, "Search %q failed: %v\n", s.Query, s.Err)
		} else {
			fmt.Fprintf(&b, "Found %d entities matching %q\n", s.Found, s.Query)
			for _, e := range s.Top {
				fmt.Fprintf(&b, "  - %s: %s\n", e.Name, e.EntityType)
			}
		}
	}
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
