// Command importer carga un export CSV de facturas en el grafo de conocimiento.
//
//	importer run --file invoices.csv [--limit N] [--dry-run] [--report-pdf debt.pdf]
//
// Un lote fallido no cambia el código de salida; solo un esquema inválido,
// un archivo ilegible o una configuración incorrecta terminan con 1.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
