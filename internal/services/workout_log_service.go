package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

const (
	defaultWorkoutSessionName = "Workout"
	workoutDateLayout         = "2006-01-02"
)

type workoutLogStore interface {
	Create(ctx context.Context, input repository.CreateWorkoutLogInput) (*models.WorkoutLog, error)
	InsertSet(ctx context.Context, logID int64, input repository.WorkoutLogSetInput) (*models.WorkoutLogSet, error)
	DeleteSets(ctx context.Context, logID int64) error
	List(ctx context.Context, filter repository.WorkoutLogFilter) ([]models.WorkoutLog, error)
	GetForUser(ctx context.Context, logID int64, userID int64) (*models.WorkoutLog, error)
	ListSets(ctx context.Context, logID int64) ([]models.WorkoutLogSetDetail, error)
	Update(ctx context.Context, logID int64, userID int64, input repository.UpdateWorkoutLogInput) (*models.WorkoutLog, error)
	Delete(ctx context.Context, logID int64, userID int64) (int64, error)
}

type programReader interface {
	GetByID(ctx context.Context, programID int64) (*models.WorkoutProgram, error)
}

type sessionReader interface {
	GetByID(ctx context.Context, sessionID int64) (*models.ProgramSession, error)
}

type LogSetInput struct {
	ExerciseID int64
	SetIndex   *int
	Reps       *int
	Load       *float64
	Notes      *string
}

type CreateWorkoutLogInput struct {
	ProgramID        *int64
	ProgramSessionID *int64
	SessionName      *string
	WorkoutDate      *string
	Sets             []LogSetInput
}

type UpdateWorkoutLogInput struct {
	SessionName *string
	WorkoutDate *string
	// A non-nil Sets replaces every stored set, an empty slice clears them.
	Sets *[]LogSetInput
}

type WorkoutLogFilter struct {
	From      string
	To        string
	ProgramID *int64
}

type WorkoutLogService struct {
	logs     workoutLogStore
	programs programReader
	sessions sessionReader
	inTx     func(ctx context.Context, fn func(logs workoutLogStore) error) error
	events   EventPublisher
	now      func() time.Time
}

func NewWorkoutLogService(
	db *pgxpool.Pool,
	logRepo *repository.WorkoutLogRepository,
	programRepo *repository.WorkoutProgramRepository,
	sessionRepo *repository.ProgramSessionRepository,
	events EventPublisher,
) *WorkoutLogService {
	return &WorkoutLogService{
		logs:     logRepo,
		programs: programRepo,
		sessions: sessionRepo,
		inTx: func(ctx context.Context, fn func(logs workoutLogStore) error) error {
			return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
				return fn(repository.NewWorkoutLogRepository(tx))
			})
		},
		events: publisherOrNoop(events),
		now:    time.Now,
	}
}

func (s *WorkoutLogService) CreateLog(
	ctx context.Context,
	userID int64,
	input CreateWorkoutLogInput,
) (*models.WorkoutLogDetail, error) {
	sessionName := defaultWorkoutSessionName
	if input.SessionName != nil && strings.TrimSpace(*input.SessionName) != "" {
		sessionName = strings.TrimSpace(*input.SessionName)
	}

	workoutDate := s.now().UTC().Format(workoutDateLayout)
	if input.WorkoutDate != nil && strings.TrimSpace(*input.WorkoutDate) != "" {
		parsed, err := parseWorkoutDate("workout_date", *input.WorkoutDate)
		if err != nil {
			return nil, err
		}
		workoutDate = parsed
	}

	if err := validateLogSets(input.Sets); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, userID, input.ProgramID, input.ProgramSessionID); err != nil {
		return nil, err
	}

	var logID int64
	err := s.inTx(ctx, func(logs workoutLogStore) error {
		log, err := logs.Create(ctx, repository.CreateWorkoutLogInput{
			UserID:           userID,
			ProgramID:        input.ProgramID,
			ProgramSessionID: input.ProgramSessionID,
			SessionName:      sessionName,
			WorkoutDate:      workoutDate,
		})
		if err != nil {
			return err
		}
		logID = log.ID
		return insertLogSets(ctx, logs, log.ID, input.Sets)
	})
	if err != nil {
		return nil, mapSetReferenceError(err)
	}

	detail, err := s.GetLog(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(userID, newSyncEvent(models.EventWorkoutLogCreated, "workout_log", logID))
	return detail, nil
}

func (s *WorkoutLogService) ListLogs(
	ctx context.Context,
	userID int64,
	filter WorkoutLogFilter,
) ([]models.WorkoutLog, error) {
	repoFilter := repository.WorkoutLogFilter{UserID: userID, ProgramID: filter.ProgramID}

	if strings.TrimSpace(filter.From) != "" {
		from, err := parseWorkoutDate("from", filter.From)
		if err != nil {
			return nil, err
		}
		repoFilter.From = from
	}
	if strings.TrimSpace(filter.To) != "" {
		to, err := parseWorkoutDate("to", filter.To)
		if err != nil {
			return nil, err
		}
		repoFilter.To = to
	}

	return s.logs.List(ctx, repoFilter)
}

// GetLog does not distinguish a missing log from another user's log.
func (s *WorkoutLogService) GetLog(ctx context.Context, userID int64, logID int64) (*models.WorkoutLogDetail, error) {
	log, err := s.logs.GetForUser(ctx, logID, userID)
	if err != nil {
		return nil, mapNoRows(err, ErrWorkoutLogNotFound)
	}

	sets, err := s.logs.ListSets(ctx, log.ID)
	if err != nil {
		return nil, err
	}

	return &models.WorkoutLogDetail{WorkoutLog: *log, Exercises: groupSetsByExercise(sets)}, nil
}

func (s *WorkoutLogService) UpdateLog(
	ctx context.Context,
	userID int64,
	logID int64,
	input UpdateWorkoutLogInput,
) (*models.WorkoutLogDetail, error) {
	update := repository.UpdateWorkoutLogInput{}
	if input.SessionName != nil {
		trimmed := strings.TrimSpace(*input.SessionName)
		if trimmed == "" {
			return nil, NewValidationError("session_name", "session_name cannot be empty")
		}
		update.SessionName = &trimmed
	}
	if input.WorkoutDate != nil {
		parsed, err := parseWorkoutDate("workout_date", *input.WorkoutDate)
		if err != nil {
			return nil, err
		}
		update.WorkoutDate = &parsed
	}
	if input.Sets != nil {
		if err := validateLogSets(*input.Sets); err != nil {
			return nil, err
		}
	}

	err := s.inTx(ctx, func(logs workoutLogStore) error {
		if _, err := logs.GetForUser(ctx, logID, userID); err != nil {
			return mapNoRows(err, ErrWorkoutLogNotFound)
		}

		if update.SessionName != nil || update.WorkoutDate != nil {
			if _, err := logs.Update(ctx, logID, userID, update); err != nil {
				return mapNoRows(err, ErrWorkoutLogNotFound)
			}
		}

		if input.Sets == nil {
			return nil
		}
		if err := logs.DeleteSets(ctx, logID); err != nil {
			return err
		}
		return insertLogSets(ctx, logs, logID, *input.Sets)
	})
	if err != nil {
		return nil, mapSetReferenceError(err)
	}

	detail, err := s.GetLog(ctx, userID, logID)
	if err != nil {
		return nil, err
	}

	s.events.Publish(userID, newSyncEvent(models.EventWorkoutLogUpdated, "workout_log", logID))
	return detail, nil
}

func (s *WorkoutLogService) DeleteLog(ctx context.Context, userID int64, logID int64) error {
	affected, err := s.logs.Delete(ctx, logID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWorkoutLogNotFound
	}

	s.events.Publish(userID, newSyncEvent(models.EventWorkoutLogDeleted, "workout_log", logID))
	return nil
}

// checkReferences only lets a log point at programs and sessions the user
// can see, and a session must belong to the referenced program.
func (s *WorkoutLogService) checkReferences(
	ctx context.Context,
	userID int64,
	programID *int64,
	sessionID *int64,
) error {
	if programID != nil {
		if err := s.checkProgramVisible(ctx, userID, *programID); err != nil {
			return err
		}
	}

	if sessionID == nil {
		return nil
	}

	session, err := s.sessions.GetByID(ctx, *sessionID)
	if err != nil {
		return mapNoRows(err, NewValidationError("program_session_id", "Session not found"))
	}
	if programID != nil {
		if session.ProgramID != *programID {
			return NewValidationError("program_session_id", "Session does not belong to program_id")
		}
		return nil
	}
	if err := s.checkProgramVisible(ctx, userID, session.ProgramID); err != nil {
		return NewValidationError("program_session_id", "Session not found")
	}
	return nil
}

func (s *WorkoutLogService) checkProgramVisible(ctx context.Context, userID int64, programID int64) error {
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return mapNoRows(err, NewValidationError("program_id", "Program not found"))
	}
	if accessFor(program, userID) == accessNone {
		return NewValidationError("program_id", "Program not found")
	}
	return nil
}

func insertLogSets(ctx context.Context, logs workoutLogStore, logID int64, sets []LogSetInput) error {
	for i, set := range sets {
		setIndex := i
		if set.SetIndex != nil {
			setIndex = *set.SetIndex
		}
		if _, err := logs.InsertSet(ctx, logID, repository.WorkoutLogSetInput{
			ExerciseID: set.ExerciseID,
			SetIndex:   setIndex,
			Reps:       set.Reps,
			Load:       set.Load,
			Notes:      set.Notes,
		}); err != nil {
			return err
		}
	}
	return nil
}

// groupSetsByExercise expects sets ordered by exercise.
func groupSetsByExercise(sets []models.WorkoutLogSetDetail) []models.LoggedExercise {
	groups := make([]models.LoggedExercise, 0)
	for _, set := range sets {
		last := len(groups) - 1
		if last < 0 || groups[last].ExerciseID != set.ExerciseID {
			groups = append(groups, models.LoggedExercise{
				ExerciseID:   set.ExerciseID,
				ExerciseName: set.ExerciseName,
				Sets:         make([]models.WorkoutLogSet, 0, 1),
			})
			last++
		}
		groups[last].Sets = append(groups[last].Sets, set.WorkoutLogSet)
	}
	return groups
}

func validateLogSets(sets []LogSetInput) error {
	fields := make([]FieldError, 0)
	for i, set := range sets {
		prefix := fmt.Sprintf("sets[%d].", i)
		if set.ExerciseID <= 0 {
			fields = append(fields, FieldError{Field: prefix + "exercise_id", Message: "exercise_id is required"})
		}
		if set.SetIndex != nil && *set.SetIndex < 0 {
			fields = append(fields, FieldError{Field: prefix + "set_index", Message: "set_index cannot be negative"})
		}
		if set.Reps != nil && *set.Reps < 0 {
			fields = append(fields, FieldError{Field: prefix + "reps", Message: "reps cannot be negative"})
		}
		if set.Load != nil && *set.Load < 0 {
			fields = append(fields, FieldError{Field: prefix + "load", Message: "load cannot be negative"})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func parseWorkoutDate(field, value string) (string, error) {
	parsed, err := time.Parse(workoutDateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", NewValidationError(field, field+" must be a date in YYYY-MM-DD format")
	}
	return parsed.Format(workoutDateLayout), nil
}

func mapSetReferenceError(err error) error {
	if isForeignKeyViolation(err) {
		return NewValidationError("sets", "Every set must reference an existing exercise")
	}
	return err
}
