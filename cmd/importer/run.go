package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/graphsink"
	infrapdf "github.com/jhoicas/invoice-graph-importer/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

type runOptions struct {
	file      string
	limit     int
	dryRun    bool
	reportPDF string
	noSearch  bool
	endpoint  string
}

func newRunCmd(env *cliEnv) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Importa un CSV de facturas (clientes, facturas y relaciones)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				opts.limit = env.cfg.Import.InvoiceLimit
			}
			if opts.endpoint != "" {
				env.cfg.MemoryGraph.URL = opts.endpoint
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), env.cfg, opts, env.log)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV exportado (requerido)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Solo las primeras N facturas (0 = todas; por defecto IMPORT_INVOICE_LIMIT)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Construir entidades y relaciones sin enviarlas")
	cmd.Flags().StringVar(&opts.reportPDF, "report-pdf", "", "Escribir además el reporte de cartera en este PDF")
	cmd.Flags().BoolVar(&opts.noSearch, "no-search", false, "Omitir la verificación search_nodes posterior")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Endpoint JSON-RPC del grafo (por defecto MEMORY_GRAPH_URL)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, out io.Writer, cfg *config.Config, opts runOptions, log *logger.Logger) error {
	if strings.TrimSpace(opts.file) == "" {
		return errors.New("--file es requerido")
	}
	if opts.limit < 0 {
		return fmt.Errorf("--limit no puede ser negativo: %d", opts.limit)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()

	store, closeStore, err := graphsink.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// El historial nunca bloquea la importación. Las corridas en seco también se
	// registran (dry_run = true), igual que desde el API.
	var history repository.ImportRunRepository
	h, closeHistory, err := postgres.OpenHistory(ctx, cfg.DB, log)
	if err != nil {
		log.Warn().Err(err).Msg("historial no disponible, se continúa sin él")
	} else {
		history = h
		defer closeHistory()
	}

	uc := ingest.NewImportUseCase(store, history, nil, ingest.ImportConfig{
		Columns:           ingest.DefaultColumns(),
		EntityBatchSize:   cfg.Import.EntityBatchSize,
		RelationBatchSize: cfg.Import.RelationBatchSize,
	}, log)

	searchQuery := cfg.Import.SearchQuery
	if opts.noSearch {
		searchQuery = ""
	}

	rep, err := uc.Run(ctx, f, ingest.ImportOptions{
		SourceName:  filepath.Base(opts.file),
		Limit:       opts.limit,
		DryRun:      opts.dryRun,
		SearchQuery: searchQuery,
		SearchLimit: cfg.Import.SearchLimit,
	})
	if err != nil {
		return err
	}
	if err := ingest.WriteSummary(out, rep); err != nil {
		return err
	}

	if opts.reportPDF != "" {
		report := ingest.NewDebtReport(rep.Analysis, rep.StartedAt)
		pdfBytes, err := infrapdf.NewDebtReportGenerator(cfg.App.Name).GenerateDebtReport(ctx, report)
		if err != nil {
			return fmt.Errorf("generar reporte de cartera: %w", err)
		}
		if err := os.WriteFile(opts.reportPDF, pdfBytes, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", opts.reportPDF, err)
		}
		fmt.Fprintf(out, "Debt report written to %s (%d customers with debt)\n", opts.reportPDF, len(report.Debtors))
	}
	return nil
}
