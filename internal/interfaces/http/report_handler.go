package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-graph-importer/internal/application/dto"
	"github.com/jhoicas/invoice-graph-importer/internal/application/ingest"
)

// ReportHandler genera el reporte de cartera en PDF (sin llamadas al grafo).
type ReportHandler struct {
	uc  Importer
	pdf ingest.DebtReportGenerator
	imp *ImportHandler
}

// NewReportHandler construye el handler.
func NewReportHandler(uc Importer, pdf ingest.DebtReportGenerator, imp *ImportHandler) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf, imp: imp}
}

// Debt godoc
// @Summary      Reporte de cartera en PDF
// @Description  Clientes con saldo pendiente ordenados por saldo descendente.
// @Tags         reports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file  formData  file  true  "CSV exportado"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/reports/debt [post]
func (h *ReportHandler) Debt(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo 'file' requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo abrir el archivo"})
	}
	defer f.Close()

	report, err := h.uc.DebtReport(c.UserContext(), f, fh.Filename)
	if err != nil {
		return h.imp.loadError(c, err)
	}
	pdfBytes, err := h.pdf.GenerateDebtReport(c.UserContext(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="debt-report.pdf"`)
	return c.Send(pdfBytes)
}
