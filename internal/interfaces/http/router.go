package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
	"github.com/jhoicas/invoice-graph-importer/pkg/jwt"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ImportUC    Importer
	History     repository.ImportRunRepository // nil = historial desactivado
	DebtPDF     ingest.DebtReportGenerator
	Runs        RunObserver // nil = sin métricas de corrida
	Gatherer    prometheus.Gatherer
	Defaults    ImportDefaults
	ServiceName string
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	importHandler := NewImportHandler(deps.ImportUC, deps.History, deps.Defaults, deps.Runs, deps.Log.Component("http"))
	reportHandler := NewReportHandler(deps.ImportUC, deps.DebtPDF, importHandler)

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	imports := api.Group("/imports")
	imports.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleImporter), importHandler.Create)
	imports.Get("/", RequireFeature("historial de importaciones", deps.History != nil), importHandler.List)

	reports := api.Group("/reports")
	reports.Post("/debt", RequireRole(jwt.RoleAdmin, jwt.RoleImporter, jwt.RoleViewer), reportHandler.Debt)
}
