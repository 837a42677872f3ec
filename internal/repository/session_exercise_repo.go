package repository

import (
	"context"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type CreateSessionExerciseInput struct {
	ProgramSessionID int64
	ExerciseID       int64
	DefaultSets      int
	DefaultReps      int
	SortOrder        int
}

type UpdateSessionExerciseInput struct {
	ExerciseID  *int64
	DefaultSets *int
	DefaultReps *int
	SortOrder   *int
}

type SessionExerciseRepository struct {
	db DBTX
}

func NewSessionExerciseRepository(db DBTX) *SessionExerciseRepository {
	return &SessionExerciseRepository{db: db}
}

func (r *SessionExerciseRepository) Create(
	ctx context.Context,
	input CreateSessionExerciseInput,
) (*models.SessionExercise, error) {
	query := `
		INSERT INTO program_session_exercises
			(program_session_id, exercise_id, default_sets, default_reps, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, program_session_id, exercise_id, default_sets, default_reps, sort_order
	`
	return r.scanOne(
		ctx,
		query,
		input.ProgramSessionID,
		input.ExerciseID,
		input.DefaultSets,
		input.DefaultReps,
		input.SortOrder,
	)
}

func (r *SessionExerciseRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.SessionExercise, error) {
	query := `
		SELECT id, program_session_id, exercise_id, default_sets, default_reps, sort_order
		FROM program_session_exercises
		WHERE program_session_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.SessionExercise, 0)
	for rows.Next() {
		var entry models.SessionExercise
		if err := rows.Scan(
			&entry.ID,
			&entry.ProgramSessionID,
			&entry.ExerciseID,
			&entry.DefaultSets,
			&entry.DefaultReps,
			&entry.SortOrder,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListDetailsBySessions joins the exercise catalog onto every entry of the
// given sessions, ordered by session then sort_order.
func (r *SessionExerciseRepository) ListDetailsBySessions(
	ctx context.Context,
	sessionIDs []int64,
) ([]models.SessionExerciseDetail, error) {
	if len(sessionIDs) == 0 {
		return []models.SessionExerciseDetail{}, nil
	}

	query := `
		SELECT pse.id, pse.program_session_id, pse.exercise_id, pse.default_sets,
			pse.default_reps, pse.sort_order, e.name, e.muscle_group, e.movement_type
		FROM program_session_exercises pse
		JOIN exercises e ON e.id = pse.exercise_id
		WHERE pse.program_session_id = ANY($1)
		ORDER BY pse.program_session_id ASC, pse.sort_order ASC, pse.id ASC
	`
	rows, err := r.db.Query(ctx, query, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]models.SessionExerciseDetail, 0)
	for rows.Next() {
		var detail models.SessionExerciseDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.ProgramSessionID,
			&detail.ExerciseID,
			&detail.DefaultSets,
			&detail.DefaultReps,
			&detail.SortOrder,
			&detail.ExerciseName,
			&detail.MuscleGroup,
			&detail.MovementType,
		); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (r *SessionExerciseRepository) NextSortOrder(ctx context.Context, sessionID int64) (int, error) {
	var next int
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM program_session_exercises WHERE program_session_id = $1`,
		sessionID,
	).Scan(&next)
	return next, err
}

func (r *SessionExerciseRepository) Update(
	ctx context.Context,
	sessionID int64,
	entryID int64,
	input UpdateSessionExerciseInput,
) (*models.SessionExercise, error) {
	query := `
		UPDATE program_session_exercises
		SET exercise_id = COALESCE($3, exercise_id),
			default_sets = COALESCE($4, default_sets),
			default_reps = COALESCE($5, default_reps),
			sort_order = COALESCE($6, sort_order)
		WHERE id = $1 AND program_session_id = $2
		RETURNING id, program_session_id, exercise_id, default_sets, default_reps, sort_order
	`
	return r.scanOne(
		ctx,
		query,
		entryID,
		sessionID,
		input.ExerciseID,
		input.DefaultSets,
		input.DefaultReps,
		input.SortOrder,
	)
}

func (r *SessionExerciseRepository) Delete(ctx context.Context, sessionID int64, entryID int64) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM program_session_exercises WHERE id = $1 AND program_session_id = $2`,
		entryID,
		sessionID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SessionExerciseRepository) scanOne(ctx context.Context, query string, args ...any) (*models.SessionExercise, error) {
	var entry models.SessionExercise
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&entry.ID,
		&entry.ProgramSessionID,
		&entry.ExerciseID,
		&entry.DefaultSets,
		&entry.DefaultReps,
		&entry.SortOrder,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
