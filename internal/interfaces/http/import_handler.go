package http

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-graph-importer/internal/application/dto"
	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
	"github.com/jhoicas/invoice-graph-importer/internal/domain"
	"github.com/jhoicas/invoice-graph-importer/internal/domain/repository"
	"github.com/jhoicas/invoice-graph-importer/pkg/logger"
)

// maxUploadBytes tamaño máximo del CSV aceptado por el API.
const maxUploadBytes = 32 << 20

// Importer contrato del caso de uso que usa el API (lo implementa *ingest.ImportUseCase).
type Importer interface {
	Run(ctx context.Context, r io.Reader, opts ingest.ImportOptions) (*ingest.ImportReport, error)
	DebtReport(ctx context.Context, r io.Reader, source string) (*ingest.DebtReport, error)
}

// RunObserver recibe cada corrida terminada (métricas). Opcional.
type RunObserver interface {
	ObserveRun(rep *ingest.ImportReport)
}

// ImportDefaults valores por defecto de las corridas lanzadas desde el API.
type ImportDefaults struct {
	Limit       int
	SearchQuery string
	SearchLimit int
}

// ImportHandler maneja las importaciones y el historial (protegido).
type ImportHandler struct {
	uc       Importer
	history  repository.ImportRunRepository
	defaults ImportDefaults
	runs     RunObserver
	log      *logger.Logger
}

// NewImportHandler construye el handler. history y runs pueden ser nil.
func NewImportHandler(uc Importer, history repository.ImportRunRepository, defaults ImportDefaults, runs RunObserver, log *logger.Logger) *ImportHandler {
	return &ImportHandler{uc: uc, history: history, defaults: defaults, runs: runs, log: log}
}

// Create godoc
// @Summary      Importar un export de facturas al grafo
// @Description  Carga el CSV, agrega por cliente y envía clientes, facturas y relaciones por lotes.
//
//	Un lote fallido no invalida la corrida: queda informado en la respuesta.
//
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "CSV exportado (UTF-8, BOM opcional)"
// @Param        limit    formData  int     false  "Solo las primeras N facturas (0 = todas)"
// @Param        dry_run  formData  bool    false  "Construir sin enviar al grafo"
// @Success      200  {object}  dto.ImportReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/imports [post]
func (h *ImportHandler) Create(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo 'file' requerido"})
	}
	if fh.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
	}

	opts := ingest.ImportOptions{
		SourceName:  fh.Filename,
		Limit:       h.defaults.Limit,
		SearchQuery: h.defaults.SearchQuery,
		SearchLimit: h.defaults.SearchLimit,
	}
	if v := c.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit debe ser un entero >= 0"})
		}
		opts.Limit = n
	}
	if v := c.FormValue("dry_run"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dry_run debe ser booleano"})
		}
		opts.DryRun = b
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	rep, err := h.uc.Run(c.UserContext(), f, opts)
	if err != nil {
		return h.loadError(c, err)
	}
	if h.runs != nil {
		h.runs.ObserveRun(rep)
	}

	h.log.Info().
		Str("subject", GetSubject(c)).
		Str("run_id", rep.RunID).
		Str("source", fh.Filename).
		Int("failed_batches", rep.FailedBatches()).
		Msg("importación vía API")

	return c.JSON(dto.NewImportReportDTO(rep))
}

// List godoc
// @Summary      Historial de importaciones
// @Tags         imports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Cantidad máxima (1-100, por defecto 20)"
// @Success      200  {object}  dto.ImportRunListDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/imports [get]
func (h *ImportHandler) List(c *fiber.Ctx) error {
	if h.history == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "FEATURE_DISABLED", Message: domain.ErrHistoryDisabled.Error()})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit inválido"})
	}
	page.DefaultPage()

	runs, err := h.history.List(c.UserContext(), page.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.ImportRunListDTO{Items: make([]dto.ImportRunDTO, 0, len(runs)), Limit: page.Limit}
	for _, r := range runs {
		out.Items = append(out.Items, dto.NewImportRunDTO(r))
	}
	return c.JSON(out)
}

// loadError traduce los errores fatales de carga del archivo.
func (h *ImportHandler) loadError(c *fiber.Ctx, err error) error {
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "SCHEMA_MISMATCH",
			Message: domain.ErrSchemaMismatch.Error(),
			Details: schemaErr.Missing,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		h.log.Error().Err(err).Msg("leer archivo de importación")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
}
