package controller

import (
	"fmt"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type exportController struct {
	exportService service.IExportService
}

func NewExportController(exportService service.IExportService) IExportController {
	return &exportController{exportService: exportService}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("csv", c.Download)
}

// Download builds the CSV and streams it back as an attachment.
func (c *exportController) Download(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.exportService.Export(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, res.Filename))
	return ctx.SendString(res.Content)
}
