package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

type contactApplicationService interface {
	Submit(ctx context.Context, input repository.CreateContactSubmissionInput) (int64, error)
	ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
}

type ContactHandler struct {
	service contactApplicationService
}

type contactRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"email"`
	Phone   *string `json:"phone"`
	Message *string `json:"message"`
}

func NewContactHandler(service contactApplicationService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if fields := validateRequest(req); fields != nil {
		return validationFailed(c, fields)
	}

	id, err := h.service.Submit(c.Context(), repository.CreateContactSubmissionInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   trimmed(req.Phone),
		Message: trimmed(req.Message),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Thank you for contacting us! We'll be in touch soon.",
		"submissionId": id,
	})
}

func (h *ContactHandler) ListSubmissions(c *fiber.Ctx) error {
	submissions, err := h.service.ListSubmissions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if submissions == nil {
		submissions = []models.ContactSubmission{}
	}

	return c.JSON(fiber.Map{"success": true, "count": len(submissions), "submissions": submissions})
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}
