package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
	"github.com/saeid-a/FlashFitBack/internal/services"
)

type programApplicationService interface {
	ListPrograms(ctx context.Context, userID int64) (*models.ProgramList, error)
	GetProgram(ctx context.Context, userID int64, programID int64) (*models.ProgramDetail, error)
	CreateProgram(ctx context.Context, userID int64, input services.CreateProgramInput) (*models.ProgramDetail, error)
	UpdateProgram(
		ctx context.Context,
		userID int64,
		programID int64,
		input repository.UpdateWorkoutProgramInput,
	) (*models.WorkoutProgram, error)
	DeleteProgram(ctx context.Context, userID int64, programID int64) error
	AddSession(
		ctx context.Context,
		userID int64,
		programID int64,
		input services.AddSessionInput,
	) (*models.ProgramSession, error)
	UpdateSession(
		ctx context.Context,
		userID int64,
		programID int64,
		sessionID int64,
		input repository.UpdateProgramSessionInput,
	) (*models.ProgramSession, error)
	DeleteSession(ctx context.Context, userID int64, programID int64, sessionID int64) error
	AddExerciseToSession(
		ctx context.Context,
		userID int64,
		programID int64,
		sessionID int64,
		input services.AddSessionExerciseInput,
	) (*models.SessionExercise, error)
	UpdateSessionExercise(
		ctx context.Context,
		userID int64,
		programID int64,
		sessionID int64,
		entryID int64,
		input repository.UpdateSessionExerciseInput,
	) (*models.SessionExercise, error)
	RemoveSessionExercise(ctx context.Context, userID int64, programID int64, sessionID int64, entryID int64) error
}

type ProgramHandler struct {
	service programApplicationService
}

type createProgramRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CopyFromID  *int64  `json:"copyFromId"`
}

type updateProgramRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type sessionRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

type addSessionExerciseRequest struct {
	ExerciseID  *int64 `json:"exercise_id" validate:"required"`
	DefaultSets *int   `json:"default_sets"`
	DefaultReps *int   `json:"default_reps"`
	SortOrder   *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

type updateSessionExerciseRequest struct {
	ExerciseID  *int64 `json:"exercise_id"`
	DefaultSets *int   `json:"default_sets"`
	DefaultReps *int   `json:"default_reps"`
	SortOrder   *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

func NewProgramHandler(service programApplicationService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	list, err := h.service.ListPrograms(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	programs := list.Programs
	if programs == nil {
		programs = []models.WorkoutProgram{}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"programs":   programs,
		"preloaded":  list.Preloaded,
		"myPrograms": list.MyPrograms,
	})
}

func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	program, err := h.service.GetProgram(c.Context(), userID, programID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "program": program})
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid or expired token.")
	}

	var req createProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	program, err := h.service.CreateProgram(c.Context(), userID, services.CreateProgramInput{
		Name:        req.Name,
		Description: req.Description,
		CopyFromID:  req.CopyFromID,
	})
	if err != nil {
		return respondError(c, err)
	}

	message := "Program created"
	if req.CopyFromID != nil {
		message = "Program copied"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"program": program,
	})
}

func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	program, err := h.service.UpdateProgram(c.Context(), userID, programID, repository.UpdateWorkoutProgramInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Program updated", "program": program})
}

func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.DeleteProgram(c.Context(), userID, programID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Program deleted"})
}

func (h *ProgramHandler) AddSession(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validateRequest(req); fields != nil {
		return validationFailed(c, fields)
	}

	session, err := h.service.AddSession(c.Context(), userID, programID, services.AddSessionInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "session": session})
}

func (h *ProgramHandler) UpdateSession(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}
	sessionID, ok := parseID(c, "sessionId")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validateRequest(req); fields != nil {
		return validationFailed(c, fields)
	}

	session, err := h.service.UpdateSession(c.Context(), userID, programID, sessionID, repository.UpdateProgramSessionInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Session updated", "session": session})
}

func (h *ProgramHandler) DeleteSession(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}
	sessionID, ok := parseID(c, "sessionId")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	if err := h.service.DeleteSession(c.Context(), userID, programID, sessionID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Session deleted"})
}

func (h *ProgramHandler) AddSessionExercise(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}
	sessionID, ok := parseID(c, "sessionId")
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid session id")
	}

	var req addSessionExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validateRequest(req); fields != nil {
		return validationFailed(c, fields)
	}

	entry, err := h.service.AddExerciseToSession(c.Context(), userID, programID, sessionID, services.AddSessionExerciseInput{
		ExerciseID:  *req.ExerciseID,
		DefaultSets: req.DefaultSets,
		DefaultReps: req.DefaultReps,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "program_session_exercise": entry})
}

func (h *ProgramHandler) UpdateSessionExercise(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}
	sessionID, entryID, err := h.entryTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateSessionExerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := validateRequest(req); fields != nil {
		return validationFailed(c, fields)
	}

	entry, err := h.service.UpdateSessionExercise(
		c.Context(),
		userID,
		programID,
		sessionID,
		entryID,
		repository.UpdateSessionExerciseInput{
			ExerciseID:  req.ExerciseID,
			DefaultSets: req.DefaultSets,
			DefaultReps: req.DefaultReps,
			SortOrder:   req.SortOrder,
		},
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Exercise updated", "program_session_exercise": entry})
}

func (h *ProgramHandler) RemoveSessionExercise(c *fiber.Ctx) error {
	userID, programID, err := h.programTarget(c)
	if err != nil {
		return respondError(c, err)
	}
	sessionID, entryID, err := h.entryTarget(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.service.RemoveSessionExercise(c.Context(), userID, programID, sessionID, entryID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Exercise removed from session"})
}

// programTarget resolves the caller and the program id. Its errors are
// *fiber.Error values that respondError writes as they are.
func (h *ProgramHandler) programTarget(c *fiber.Ctx) (int64, int64, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return 0, 0, errUnauthorized
	}
	programID, ok := parseID(c, "id")
	if !ok {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid program id")
	}
	return userID, programID, nil
}

func (h *ProgramHandler) entryTarget(c *fiber.Ctx) (int64, int64, error) {
	sessionID, ok := parseID(c, "sessionId")
	if !ok {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	entryID, ok := parseID(c, "entryId")
	if !ok {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid session exercise id")
	}
	return sessionID, entryID, nil
}
