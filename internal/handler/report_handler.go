package handler

import (
	"fmt"

	"go-slab-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ExportService
}

func NewReportHandler(s service.ExportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Export downloads the batch report as .xlsx
// GET /api/v1/batches/:batch/export
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	file, err := h.service.Export(currentSession(c), c.Params("batch"))
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	return c.Send(file.Data)
}
