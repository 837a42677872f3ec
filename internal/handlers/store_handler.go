package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
	"github.com/saeid-a/FlashFitBack/internal/services"
)

type storeApplicationService interface {
	ListPrograms(ctx context.Context, filter repository.StoreProgramFilter) ([]models.StoreProgram, error)
	GetProgram(ctx context.Context, programID int64) (*models.StoreProgram, error)
	Purchase(ctx context.Context, userID int64, programID int64) (*models.Purchase, error)
	ListPurchases(ctx context.Context, userID int64) ([]models.PurchasedProgram, error)
}

type StoreHandler struct {
	service storeApplicationService
}

func NewStoreHandler(service storeApplicationService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) ListPrograms(c *fiber.Ctx) error {
	minPrice, ok := parseOptionalFloat(c.Query("minPrice"))
	if !ok {
		return validationFailed(c, []services.FieldError{{Field: "minPrice", Message: "minPrice must be a number"}})
	}
	maxPrice, ok := parseOptionalFloat(c.Query("maxPrice"))
	if !ok {
		return validationFailed(c, []services.FieldError{{Field: "maxPrice", Message: "maxPrice must be a number"}})
	}

	programs, err := h.service.ListPrograms(c.Context(), repository.StoreProgramFilter{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	})
	if err != nil {
		return respondError(c, err)
	}
	if programs == nil {
		programs = []models.StoreProgram{}
	}

	return c.JSON(fiber.Map{"success": true, "count": len(programs), "programs": programs})
}

func (h *StoreHandler) GetProgram(c *fiber.Ctx) error {
	programID, ok := parseID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid program id")
	}

	program, err := h.service.GetProgram(c.Context(), programID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "program": program})
}

func (h *StoreHandler) Purchase(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}
	programID, ok := parseID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid program id")
	}

	purchase, err := h.service.Purchase(c.Context(), userID, programID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Program purchased successfully!",
		"purchase": purchase,
	})
}

func (h *StoreHandler) ListPurchases(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	purchases, err := h.service.ListPurchases(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if purchases == nil {
		purchases = []models.PurchasedProgram{}
	}

	return c.JSON(fiber.Map{"success": true, "count": len(purchases), "purchases": purchases})
}
