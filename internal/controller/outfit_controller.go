package controller

import (
	"errors"

	"citystyle-be/internal/dto"
	"citystyle-be/internal/pkg/logger"
	"citystyle-be/internal/pkg/serverutils"
	"citystyle-be/internal/service"
	"citystyle-be/pkg/outfit"

	"github.com/gofiber/fiber/v2"
)

const (
	msgNoItems      = "No items provided."
	msgOutfitFailed = "Failed to generate outfit and image"
)

type IOutfitController interface {
	RegisterRoutes(r fiber.Router)
	GenerateOutfit(ctx *fiber.Ctx) error
}

type outfitController struct {
	service service.IOutfitService
	logger  logger.ILogger
}

func NewOutfitController(service service.IOutfitService, log logger.ILogger) IOutfitController {
	return &outfitController{service: service, logger: log}
}

func (c *outfitController) RegisterRoutes(r fiber.Router) {
	r.Post("/generate-outfit", c.GenerateOutfit)
	r.Post("/api/generate-outfit", c.GenerateOutfit)
}

// GenerateOutfit composes an outfit recommendation and image from selected items
// @Summary Generate outfit
// @Tags Outfit
// @Accept json
// @Produce json
// @Param request body dto.GenerateOutfitRequest true "Selected items"
// @Success 200 {object} dto.GenerateOutfitResponse
// @Router /generate-outfit [post]
func (c *outfitController) GenerateOutfit(ctx *fiber.Ctx) error {
	var req dto.GenerateOutfitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgNoItems, err.Error()))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgNoItems))
	}

	res, err := c.service.GenerateOutfit(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, outfit.ErrNoItems) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(msgNoItems))
		}
		c.logger.Error("OutfitController", "generate outfit failed", map[string]interface{}{
			"items": len(req.SelectedItems),
			"error": err,
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(msgOutfitFailed, err.Error()))
	}

	return ctx.JSON(res)
}
