package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

const (
	defaultProgramName      = "My Program"
	defaultSessionName      = "New Session"
	defaultSessionSets      = 3
	defaultSessionReps      = 10
	copiedProgramNameSuffix = " (Copy)"
)

type workoutProgramStore interface {
	Create(ctx context.Context, input repository.CreateWorkoutProgramInput) (*models.WorkoutProgram, error)
	ListVisible(ctx context.Context, userID int64) ([]models.WorkoutProgram, error)
	GetByID(ctx context.Context, programID int64) (*models.WorkoutProgram, error)
	Update(ctx context.Context, programID int64, input repository.UpdateWorkoutProgramInput) (*models.WorkoutProgram, error)
	Delete(ctx context.Context, programID int64) (int64, error)
}

type programSessionStore interface {
	Create(ctx context.Context, input repository.CreateProgramSessionInput) (*models.ProgramSession, error)
	ListByProgram(ctx context.Context, programID int64) ([]models.ProgramSession, error)
	GetInProgram(ctx context.Context, programID int64, sessionID int64) (*models.ProgramSession, error)
	NextSortOrder(ctx context.Context, programID int64) (int, error)
	Update(ctx context.Context, programID int64, sessionID int64, input repository.UpdateProgramSessionInput) (*models.ProgramSession, error)
	Delete(ctx context.Context, programID int64, sessionID int64) (int64, error)
}

type sessionExerciseStore interface {
	Create(ctx context.Context, input repository.CreateSessionExerciseInput) (*models.SessionExercise, error)
	ListBySession(ctx context.Context, sessionID int64) ([]models.SessionExercise, error)
	ListDetailsBySessions(ctx context.Context, sessionIDs []int64) ([]models.SessionExerciseDetail, error)
	NextSortOrder(ctx context.Context, sessionID int64) (int, error)
	Update(ctx context.Context, sessionID int64, entryID int64, input repository.UpdateSessionExerciseInput) (*models.SessionExercise, error)
	Delete(ctx context.Context, sessionID int64, entryID int64) (int64, error)
}

type programStores struct {
	programs  workoutProgramStore
	sessions  programSessionStore
	exercises sessionExerciseStore
}

type CreateProgramInput struct {
	Name        *string
	Description *string
	CopyFromID  *int64
}

type AddSessionInput struct {
	Name      *string
	SortOrder *int
}

type AddSessionExerciseInput struct {
	ExerciseID  int64
	DefaultSets *int
	DefaultReps *int
	SortOrder   *int
}

type ProgramService struct {
	stores programStores
	inTx   func(ctx context.Context, fn func(stores programStores) error) error
	events EventPublisher
}

func NewProgramService(
	db *pgxpool.Pool,
	programRepo *repository.WorkoutProgramRepository,
	sessionRepo *repository.ProgramSessionRepository,
	sessionExerciseRepo *repository.SessionExerciseRepository,
	events EventPublisher,
) *ProgramService {
	return &ProgramService{
		stores: programStores{
			programs:  programRepo,
			sessions:  sessionRepo,
			exercises: sessionExerciseRepo,
		},
		inTx: func(ctx context.Context, fn func(stores programStores) error) error {
			return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
				return fn(programStores{
					programs:  repository.NewWorkoutProgramRepository(tx),
					sessions:  repository.NewProgramSessionRepository(tx),
					exercises: repository.NewSessionExerciseRepository(tx),
				})
			})
		},
		events: publisherOrNoop(events),
	}
}

func (s *ProgramService) ListPrograms(ctx context.Context, userID int64) (*models.ProgramList, error) {
	programs, err := s.stores.programs.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &models.ProgramList{
		Programs:   programs,
		Preloaded:  make([]models.WorkoutProgram, 0),
		MyPrograms: make([]models.WorkoutProgram, 0),
	}
	for _, program := range programs {
		switch accessFor(&program, userID) {
		case accessRead:
			list.Preloaded = append(list.Preloaded, program)
		case accessWrite:
			list.MyPrograms = append(list.MyPrograms, program)
		}
	}
	return list, nil
}

func (s *ProgramService) GetProgram(ctx context.Context, userID int64, programID int64) (*models.ProgramDetail, error) {
	program, err := s.visibleProgram(ctx, s.stores, userID, programID, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, s.stores, program)
}

// CreateProgram creates an empty owned program, or deep-copies a visible
// program in one transaction when CopyFromID is set.
func (s *ProgramService) CreateProgram(
	ctx context.Context,
	userID int64,
	input CreateProgramInput,
) (*models.ProgramDetail, error) {
	var detail *models.ProgramDetail
	var err error
	if input.CopyFromID != nil {
		detail, err = s.copyProgram(ctx, userID, *input.CopyFromID)
	} else {
		detail, err = s.createEmptyProgram(ctx, userID, input)
	}
	if err != nil {
		return nil, err
	}

	s.events.Publish(userID, newSyncEvent(models.EventProgramCreated, "program", detail.ID))
	return detail, nil
}

func (s *ProgramService) createEmptyProgram(
	ctx context.Context,
	userID int64,
	input CreateProgramInput,
) (*models.ProgramDetail, error) {
	name := defaultProgramName
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		name = strings.TrimSpace(*input.Name)
	}
	description := ""
	if input.Description != nil {
		description = strings.TrimSpace(*input.Description)
	}

	owner := userID
	program, err := s.stores.programs.Create(ctx, repository.CreateWorkoutProgramInput{
		Name:        name,
		Description: description,
		UserID:      &owner,
	})
	if err != nil {
		return nil, err
	}

	return &models.ProgramDetail{WorkoutProgram: *program, Sessions: []models.ProgramSessionDetail{}}, nil
}

func (s *ProgramService) copyProgram(ctx context.Context, userID int64, sourceID int64) (*models.ProgramDetail, error) {
	var detail *models.ProgramDetail
	err := s.inTx(ctx, func(stores programStores) error {
		source, err := s.visibleProgram(ctx, stores, userID, sourceID, ErrCopySourceNotFound)
		if err != nil {
			return err
		}

		owner := userID
		program, err := stores.programs.Create(ctx, repository.CreateWorkoutProgramInput{
			Name:        source.Name + copiedProgramNameSuffix,
			Description: source.Description,
			UserID:      &owner,
		})
		if err != nil {
			return err
		}

		sessions, err := stores.sessions.ListByProgram(ctx, source.ID)
		if err != nil {
			return err
		}
		for _, session := range sessions {
			copied, err := stores.sessions.Create(ctx, repository.CreateProgramSessionInput{
				ProgramID: program.ID,
				Name:      session.Name,
				SortOrder: session.SortOrder,
			})
			if err != nil {
				return err
			}

			entries, err := stores.exercises.ListBySession(ctx, session.ID)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if _, err := stores.exercises.Create(ctx, repository.CreateSessionExerciseInput{
					ProgramSessionID: copied.ID,
					ExerciseID:       entry.ExerciseID,
					DefaultSets:      entry.DefaultSets,
					DefaultReps:      entry.DefaultReps,
					SortOrder:        entry.SortOrder,
				}); err != nil {
					return err
				}
			}
		}

		detail, err = s.assembleDetail(ctx, stores, program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ProgramService) UpdateProgram(
	ctx context.Context,
	userID int64,
	programID int64,
	input repository.UpdateWorkoutProgramInput,
) (*models.WorkoutProgram, error) {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, NewValidationError("name", "Name cannot be empty")
		}
		input.Name = &trimmed
	}

	program, err := s.stores.programs.Update(ctx, programID, input)
	if err != nil {
		return nil, mapNoRows(err, ErrProgramNotFound)
	}

	s.events.Publish(userID, newSyncEvent(models.EventProgramUpdated, "program", program.ID))
	return program, nil
}

func (s *ProgramService) DeleteProgram(ctx context.Context, userID int64, programID int64) error {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to delete this program"); err != nil {
		return err
	}

	affected, err := s.stores.programs.Delete(ctx, programID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProgramNotFound
	}

	s.events.Publish(userID, newSyncEvent(models.EventProgramDeleted, "program", programID))
	return nil
}

func (s *ProgramService) AddSession(
	ctx context.Context,
	userID int64,
	programID int64,
	input AddSessionInput,
) (*models.ProgramSession, error) {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return nil, err
	}

	name := defaultSessionName
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		name = strings.TrimSpace(*input.Name)
	}

	sortOrder, err := s.sortOrderOrNext(ctx, input.SortOrder, func() (int, error) {
		return s.stores.sessions.NextSortOrder(ctx, programID)
	})
	if err != nil {
		return nil, err
	}

	session, err := s.stores.sessions.Create(ctx, repository.CreateProgramSessionInput{
		ProgramID: programID,
		Name:      name,
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, err
	}

	s.publishProgramUpdated(userID, programID)
	return session, nil
}

func (s *ProgramService) UpdateSession(
	ctx context.Context,
	userID int64,
	programID int64,
	sessionID int64,
	input repository.UpdateProgramSessionInput,
) (*models.ProgramSession, error) {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, NewValidationError("name", "Name cannot be empty")
		}
		input.Name = &trimmed
	}

	session, err := s.stores.sessions.Update(ctx, programID, sessionID, input)
	if err != nil {
		return nil, mapNoRows(err, ErrSessionNotFound)
	}

	s.publishProgramUpdated(userID, programID)
	return session, nil
}

func (s *ProgramService) DeleteSession(ctx context.Context, userID int64, programID int64, sessionID int64) error {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return err
	}

	affected, err := s.stores.sessions.Delete(ctx, programID, sessionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	s.publishProgramUpdated(userID, programID)
	return nil
}

func (s *ProgramService) AddExerciseToSession(
	ctx context.Context,
	userID int64,
	programID int64,
	sessionID int64,
	input AddSessionExerciseInput,
) (*models.SessionExercise, error) {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return nil, err
	}
	if _, err := s.stores.sessions.GetInProgram(ctx, programID, sessionID); err != nil {
		return nil, mapNoRows(err, ErrSessionNotFound)
	}

	sets := defaultSessionSets
	if input.DefaultSets != nil {
		sets = *input.DefaultSets
	}
	reps := defaultSessionReps
	if input.DefaultReps != nil {
		reps = *input.DefaultReps
	}
	if err := validateTargets(input.ExerciseID, sets, reps); err != nil {
		return nil, err
	}

	sortOrder, err := s.sortOrderOrNext(ctx, input.SortOrder, func() (int, error) {
		return s.stores.exercises.NextSortOrder(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}

	entry, err := s.stores.exercises.Create(ctx, repository.CreateSessionExerciseInput{
		ProgramSessionID: sessionID,
		ExerciseID:       input.ExerciseID,
		DefaultSets:      sets,
		DefaultReps:      reps,
		SortOrder:        sortOrder,
	})
	if err != nil {
		return nil, mapExerciseReferenceError(err)
	}

	s.publishProgramUpdated(userID, programID)
	return entry, nil
}

func (s *ProgramService) UpdateSessionExercise(
	ctx context.Context,
	userID int64,
	programID int64,
	sessionID int64,
	entryID int64,
	input repository.UpdateSessionExerciseInput,
) (*models.SessionExercise, error) {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return nil, err
	}
	if _, err := s.stores.sessions.GetInProgram(ctx, programID, sessionID); err != nil {
		return nil, mapNoRows(err, ErrSessionNotFound)
	}

	if input.ExerciseID != nil && *input.ExerciseID <= 0 {
		return nil, NewValidationError("exercise_id", "exercise_id must be a positive integer")
	}
	if input.DefaultSets != nil && *input.DefaultSets <= 0 {
		return nil, NewValidationError("default_sets", "default_sets must be a positive integer")
	}
	if input.DefaultReps != nil && *input.DefaultReps <= 0 {
		return nil, NewValidationError("default_reps", "default_reps must be a positive integer")
	}

	entry, err := s.stores.exercises.Update(ctx, sessionID, entryID, input)
	if err != nil {
		return nil, mapExerciseReferenceError(mapNoRows(err, ErrSessionExerciseNotFound))
	}

	s.publishProgramUpdated(userID, programID)
	return entry, nil
}

func (s *ProgramService) RemoveSessionExercise(
	ctx context.Context,
	userID int64,
	programID int64,
	sessionID int64,
	entryID int64,
) error {
	if _, err := s.writableProgram(ctx, userID, programID, "Not allowed to edit this program"); err != nil {
		return err
	}
	if _, err := s.stores.sessions.GetInProgram(ctx, programID, sessionID); err != nil {
		return mapNoRows(err, ErrSessionNotFound)
	}

	affected, err := s.stores.exercises.Delete(ctx, sessionID, entryID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionExerciseNotFound
	}

	s.publishProgramUpdated(userID, programID)
	return nil
}

func (s *ProgramService) visibleProgram(
	ctx context.Context,
	stores programStores,
	userID int64,
	programID int64,
	notFound error,
) (*models.WorkoutProgram, error) {
	program, err := stores.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, mapNoRows(err, notFound)
	}
	if accessFor(program, userID) == accessNone {
		return nil, notFound
	}
	return program, nil
}

func (s *ProgramService) writableProgram(
	ctx context.Context,
	userID int64,
	programID int64,
	forbiddenMessage string,
) (*models.WorkoutProgram, error) {
	program, err := s.visibleProgram(ctx, s.stores, userID, programID, ErrProgramNotFound)
	if err != nil {
		return nil, err
	}
	if accessFor(program, userID) != accessWrite {
		return nil, &ForbiddenError{Message: forbiddenMessage}
	}
	return program, nil
}

func (s *ProgramService) assembleDetail(
	ctx context.Context,
	stores programStores,
	program *models.WorkoutProgram,
) (*models.ProgramDetail, error) {
	sessions, err := stores.sessions.ListByProgram(ctx, program.ID)
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}

	entries, err := stores.exercises.ListDetailsBySessions(ctx, sessionIDs)
	if err != nil {
		return nil, err
	}

	bySession := make(map[int64][]models.SessionExerciseDetail, len(sessions))
	for _, entry := range entries {
		bySession[entry.ProgramSessionID] = append(bySession[entry.ProgramSessionID], entry)
	}

	detail := &models.ProgramDetail{
		WorkoutProgram: *program,
		Sessions:       make([]models.ProgramSessionDetail, 0, len(sessions)),
	}
	for _, session := range sessions {
		exercises := bySession[session.ID]
		if exercises == nil {
			exercises = []models.SessionExerciseDetail{}
		}
		detail.Sessions = append(detail.Sessions, models.ProgramSessionDetail{
			ProgramSession: session,
			Exercises:      exercises,
		})
	}
	return detail, nil
}

func (s *ProgramService) sortOrderOrNext(ctx context.Context, requested *int, next func() (int, error)) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	return next()
}

func (s *ProgramService) publishProgramUpdated(userID int64, programID int64) {
	s.events.Publish(userID, newSyncEvent(models.EventProgramUpdated, "program", programID))
}

func validateTargets(exerciseID int64, sets int, reps int) error {
	fields := make([]FieldError, 0)
	if exerciseID <= 0 {
		fields = append(fields, FieldError{Field: "exercise_id", Message: "exercise_id is required"})
	}
	if sets <= 0 {
		fields = append(fields, FieldError{Field: "default_sets", Message: "default_sets must be a positive integer"})
	}
	if reps <= 0 {
		fields = append(fields, FieldError{Field: "default_reps", Message: "default_reps must be a positive integer"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func mapExerciseReferenceError(err error) error {
	switch {
	case isForeignKeyViolation(err):
		return NewValidationError("exercise_id", "Exercise does not exist")
	case isCheckViolation(err):
		return NewValidationError("default_sets", "default_sets and default_reps must be positive integers")
	default:
		return err
	}
}
