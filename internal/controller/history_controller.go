package controller

import (
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IHistoryController interface {
	RegisterRoutes(r fiber.Router)
	Searches(ctx *fiber.Ctx) error
	Exports(ctx *fiber.Ctx) error
	Rerun(ctx *fiber.Ctx) error
}

type historyController struct {
	historyService service.IHistoryService
}

func NewHistoryController(historyService service.IHistoryService) IHistoryController {
	return &historyController{historyService: historyService}
}

func (c *historyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/history/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("searches", c.Searches)
	h.Get("exports", c.Exports)
	h.Post("searches/rerun", c.Rerun)
}

func (c *historyController) Searches(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.historyService.ListSearches(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search history", res))
}

func (c *historyController) Exports(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	res, err := c.historyService.ListExports(ctx.Context(), userId, page, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Export history", res))
}

// Rerun queues a historical query for re-execution. The search itself
// happens on the worker; this returns immediately.
func (c *historyController) Rerun(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req struct {
		Query string `json:"query" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.historyService.RerunSearch(ctx.Context(), userId, req.Query)

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Rerun queued", nil))
}
