package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/services"
)

type workoutLogApplicationService interface {
	CreateLog(ctx context.Context, userID int64, input services.CreateWorkoutLogInput) (*models.WorkoutLogDetail, error)
	ListLogs(ctx context.Context, userID int64, filter services.WorkoutLogFilter) ([]models.WorkoutLog, error)
	GetLog(ctx context.Context, userID int64, logID int64) (*models.WorkoutLogDetail, error)
	UpdateLog(
		ctx context.Context,
		userID int64,
		logID int64,
		input services.UpdateWorkoutLogInput,
	) (*models.WorkoutLogDetail, error)
	DeleteLog(ctx context.Context, userID int64, logID int64) error
}

type WorkoutLogHandler struct {
	service workoutLogApplicationService
}

type logSetRequest struct {
	ExerciseID int64    `json:"exercise_id"`
	SetIndex   *int     `json:"set_index"`
	Reps       *int     `json:"reps"`
	Load       *float64 `json:"load"`
	Notes      *string  `json:"notes"`
}

type createWorkoutLogRequest struct {
	ProgramID        *int64          `json:"program_id"`
	ProgramSessionID *int64          `json:"program_session_id"`
	SessionName      *string         `json:"session_name"`
	WorkoutDate      *string         `json:"workout_date"`
	Sets             []logSetRequest `json:"sets"`
}

type updateWorkoutLogRequest struct {
	SessionName *string `json:"session_name"`
	WorkoutDate *string `json:"workout_date"`
	// Pointer so an explicit empty array can be told apart from an absent key.
	Sets *[]logSetRequest `json:"sets"`
}

func NewWorkoutLogHandler(service workoutLogApplicationService) *WorkoutLogHandler {
	return &WorkoutLogHandler{service: service}
}

func (h *WorkoutLogHandler) ListLogs(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	filter := services.WorkoutLogFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := strings.TrimSpace(c.Query("program_id")); raw != "" {
		programID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || programID <= 0 {
			return validationFailed(c, []services.FieldError{{
				Field:   "program_id",
				Message: "program_id must be a positive integer",
			}})
		}
		filter.ProgramID = &programID
	}

	logs, err := h.service.ListLogs(c.Context(), userID, filter)
	if err != nil {
		return respondError(c, err)
	}
	if logs == nil {
		logs = []models.WorkoutLog{}
	}

	return c.JSON(fiber.Map{"success": true, "count": len(logs), "workout_logs": logs})
}

func (h *WorkoutLogHandler) GetLog(c *fiber.Ctx) error {
	userID, logID, err := logTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	log, err := h.service.GetLog(c.Context(), userID, logID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "workout_log": log})
}

func (h *WorkoutLogHandler) CreateLog(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	var req createWorkoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	log, err := h.service.CreateLog(c.Context(), userID, services.CreateWorkoutLogInput{
		ProgramID:        req.ProgramID,
		ProgramSessionID: req.ProgramSessionID,
		SessionName:      req.SessionName,
		WorkoutDate:      req.WorkoutDate,
		Sets:             toLogSetInputs(req.Sets),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Workout log created",
		"workout_log": log,
	})
}

func (h *WorkoutLogHandler) UpdateLog(c *fiber.Ctx) error {
	userID, logID, err := logTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateWorkoutLogRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input := services.UpdateWorkoutLogInput{
		SessionName: req.SessionName,
		WorkoutDate: req.WorkoutDate,
	}
	if req.Sets != nil {
		sets := toLogSetInputs(*req.Sets)
		input.Sets = &sets
	}

	log, err := h.service.UpdateLog(c.Context(), userID, logID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Workout log updated",
		"workout_log": log,
	})
}

func (h *WorkoutLogHandler) DeleteLog(c *fiber.Ctx) error {
	userID, logID, err := logTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteLog(c.Context(), userID, logID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Workout log deleted"})
}

func logTarget(c *fiber.Ctx) (int64, int64, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return 0, 0, errUnauthorized
	}
	logID, ok := parseID(c, "id")
	if !ok {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid workout log id")
	}
	return userID, logID, nil
}

func toLogSetInputs(sets []logSetRequest) []services.LogSetInput {
	inputs := make([]services.LogSetInput, 0, len(sets))
	for _, set := range sets {
		inputs = append(inputs, services.LogSetInput{
			ExerciseID: set.ExerciseID,
			SetIndex:   set.SetIndex,
			Reps:       set.Reps,
			Load:       set.Load,
			Notes:      set.Notes,
		})
	}
	return inputs
}
