package controller

import (
	"errors"

	"citystyle-be/internal/dto"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/internal/pkg/serverutils"
	"citystyle-be/internal/service"
	"citystyle-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
)

const (
	msgQueryRequired    = "Query and type are required."
	msgUnsupportedQuery = "Unsupported query type."
)

type IRagController interface {
	RegisterRoutes(r fiber.Router)
	PerformRag(ctx *fiber.Ctx) error
}

type ragController struct {
	service service.IRagService
	logger  logger.ILogger
}

func NewRagController(service service.IRagService, log logger.ILogger) IRagController {
	return &ragController{service: service, logger: log}
}

func (c *ragController) RegisterRoutes(r fiber.Router) {
	r.Get("/rag", c.PerformRag)
	r.Get("/api/perform-rag", c.PerformRag)
}

// PerformRag runs the trend pipeline for one intent and city
// @Summary Perform trend RAG
// @Tags RAG
// @Produce json
// @Param type query string true "tldr | compare | outfit | buy"
// @Param query query string true "Search query"
// @Param city query string false "City"
// @Success 200 {object} dto.PerformRagResponse
// @Router /rag [get]
func (c *ragController) PerformRag(ctx *fiber.Ctx) error {
	var req dto.PerformRagRequest
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgQueryRequired))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgQueryRequired))
	}

	res, err := c.service.PerformRag(ctx.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrUnsupportedIntent):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgUnsupportedQuery))
		case errors.Is(err, rag.ErrInvalidRequest):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgQueryRequired))
		}
		c.logger.Error("RagController", "perform rag failed", map[string]interface{}{
			"type":  req.Type,
			"city":  req.City,
			"error": err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(serverutils.GenericErrorMessage, err.Error()))
	}

	return ctx.JSON(res)
}
