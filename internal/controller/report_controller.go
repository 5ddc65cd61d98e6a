package controller

import (
	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	SendEmail(ctx *fiber.Ctx) error
}

type reportController struct {
	reportService service.IReportService
}

func NewReportController(reportService service.IReportService) IReportController {
	return &reportController{reportService: reportService}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("email", c.SendEmail)
}

func (c *reportController) SendEmail(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.EmailReportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reportService.SendReport(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Report sent", res))
}
