package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

type catalogApplicationService interface {
	ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error)
	GetAlternatives(ctx context.Context, userID int64, exerciseID int64) ([]models.ExerciseAlternative, error)
	GetHistory(ctx context.Context, userID int64, exerciseID int64) ([]models.ExerciseHistoryEntry, error)
}

type ExerciseHandler struct {
	service catalogApplicationService
}

func NewExerciseHandler(service catalogApplicationService) *ExerciseHandler {
	return &ExerciseHandler{service: service}
}

func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	exercises, err := h.service.ListExercises(c.Context(), repository.ExerciseFilter{
		MuscleGroup:  c.Query("muscle_group"),
		MovementType: c.Query("movement_type"),
	})
	if err != nil {
		return respondError(c, err)
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	return c.JSON(fiber.Map{"success": true, "count": len(exercises), "exercises": exercises})
}

func (h *ExerciseHandler) GetHistory(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}
	exerciseID, ok := parseID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid exercise id")
	}

	history, err := h.service.GetHistory(c.Context(), userID, exerciseID)
	if err != nil {
		return respondError(c, err)
	}
	if history == nil {
		history = []models.ExerciseHistoryEntry{}
	}

	return c.JSON(fiber.Map{"success": true, "history": history})
}

func (h *ExerciseHandler) GetAlternatives(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}
	exerciseID, ok := parseID(c, "id")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid exercise id")
	}

	alternatives, err := h.service.GetAlternatives(c.Context(), userID, exerciseID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "alternatives": alternatives})
}
