package controller

import (
	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Sources(ctx *fiber.Ctx) error
	Filter(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
	resultService service.IResultService
}

func NewSearchController(searchService service.ISearchService, resultService service.IResultService) ISearchController {
	return &searchController{
		searchService: searchService,
		resultService: resultService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Search)
	h.Get("sources", c.Sources)
	h.Post("filter", c.Filter)
	h.Get("results", c.Results)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Search(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search completed", res))
}

func (c *searchController) Sources(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Available sources", c.searchService.Sources()))
}

func (c *searchController) Filter(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.FilterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.resultService.Filter(ctx.Context(), userId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Results filtered", res))
}

func (c *searchController) Results(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.resultService.Current(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Current results", res))
}
