package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/graphsink"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/invoice-graph-importer/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-graph-importer/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/invoice-graph-importer/internal/interfaces/http"
	"github.com/jhoicas/invoice-graph-importer/pkg/config"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sink", cfg.Import.Sink).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido para el API")
	}

	ctx := context.Background()
	store, closeStore, err := graphsink.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir grafo de destino")
	}
	defer closeStore()

	// Historial opcional: sin DB el API sigue funcionando y GET /api/imports responde 503.
	history, closeHistory, err := postgres.OpenHistory(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer closeHistory()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	importMetrics := metrics.NewImportMetrics(registry)

	importUC := ingest.NewImportUseCase(store, history, importMetrics, ingest.ImportConfig{
		Columns:           ingest.DefaultColumns(),
		EntityBatchSize:   cfg.Import.EntityBatchSize,
		RelationBatchSize: cfg.Import.RelationBatchSize,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 120, // una importación completa puede tardar varios lotes
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 << 20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Invoice Graph Importer API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ImportUC: importUC,
		History:  history,
		DebtPDF:  infrapdf.NewDebtReportGenerator(cfg.App.Name),
		Runs:     importMetrics,
		Gatherer: registry,
		Defaults: httpRouter.ImportDefaults{
			Limit:       cfg.Import.InvoiceLimit,
			SearchQuery: cfg.Import.SearchQuery,
			SearchLimit: cfg.Import.SearchLimit,
		},
		ServiceName: cfg.App.Name,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
