package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type CreateWorkoutLogInput struct {
	UserID           int64
	ProgramID        *int64
	ProgramSessionID *int64
	SessionName      string
	WorkoutDate      string
}

type UpdateWorkoutLogInput struct {
	SessionName *string
	WorkoutDate *string
}

type WorkoutLogSetInput struct {
	ExerciseID int64
	SetIndex   int
	Reps       *int
	Load       *float64
	Notes      *string
}

type WorkoutLogFilter struct {
	UserID    int64
	From      string
	To        string
	ProgramID *int64
}

type WorkoutLogRepository struct {
	db DBTX
}

func NewWorkoutLogRepository(db DBTX) *WorkoutLogRepository {
	return &WorkoutLogRepository{db: db}
}

const workoutLogColumns = `id, user_id, program_id, program_session_id, session_name, workout_date::text, created_at`

func (r *WorkoutLogRepository) Create(ctx context.Context, input CreateWorkoutLogInput) (*models.WorkoutLog, error) {
	query := `
		INSERT INTO workout_logs (user_id, program_id, program_session_id, session_name, workout_date)
		VALUES ($1, $2, $3, $4, $5::date)
		RETURNING ` + workoutLogColumns
	return r.scanOne(
		ctx,
		query,
		input.UserID,
		input.ProgramID,
		input.ProgramSessionID,
		input.SessionName,
		input.WorkoutDate,
	)
}

func (r *WorkoutLogRepository) InsertSet(
	ctx context.Context,
	logID int64,
	input WorkoutLogSetInput,
) (*models.WorkoutLogSet, error) {
	query := `
		INSERT INTO workout_log_sets (workout_log_id, exercise_id, set_index, reps, load, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, workout_log_id, exercise_id, set_index, reps, load, notes
	`
	var set models.WorkoutLogSet
	err := r.db.QueryRow(ctx, query, logID, input.ExerciseID, input.SetIndex, input.Reps, input.Load, input.Notes).Scan(
		&set.ID,
		&set.WorkoutLogID,
		&set.ExerciseID,
		&set.SetIndex,
		&set.Reps,
		&set.Load,
		&set.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *WorkoutLogRepository) DeleteSets(ctx context.Context, logID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workout_log_sets WHERE workout_log_id = $1`, logID)
	return err
}

func (r *WorkoutLogRepository) List(ctx context.Context, filter WorkoutLogFilter) ([]models.WorkoutLog, error) {
	args := []any{filter.UserID}
	whereParts := []string{"user_id = $1"}

	if filter.From != "" {
		args = append(args, filter.From)
		whereParts = append(whereParts, fmt.Sprintf("workout_date >= $%d::date", len(args)))
	}
	if filter.To != "" {
		args = append(args, filter.To)
		whereParts = append(whereParts, fmt.Sprintf("workout_date <= $%d::date", len(args)))
	}
	if filter.ProgramID != nil {
		args = append(args, *filter.ProgramID)
		whereParts = append(whereParts, fmt.Sprintf("program_id = $%d", len(args)))
	}

	query := `SELECT ` + workoutLogColumns + `
		FROM workout_logs
		WHERE ` + strings.Join(whereParts, " AND ") + `
		ORDER BY workout_date DESC, created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.WorkoutLog, 0)
	for rows.Next() {
		var log models.WorkoutLog
		if err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.ProgramID,
			&log.ProgramSessionID,
			&log.SessionName,
			&log.WorkoutDate,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// GetForUser returns pgx.ErrNoRows both for a missing log and for a log
// owned by someone else.
func (r *WorkoutLogRepository) GetForUser(ctx context.Context, logID int64, userID int64) (*models.WorkoutLog, error) {
	query := `SELECT ` + workoutLogColumns + `
		FROM workout_logs
		WHERE id = $1 AND user_id = $2`
	return r.scanOne(ctx, query, logID, userID)
}

func (r *WorkoutLogRepository) ListSets(ctx context.Context, logID int64) ([]models.WorkoutLogSetDetail, error) {
	query := `
		SELECT wls.id, wls.workout_log_id, wls.exercise_id, wls.set_index, wls.reps,
			wls.load, wls.notes, e.name
		FROM workout_log_sets wls
		JOIN exercises e ON e.id = wls.exercise_id
		WHERE wls.workout_log_id = $1
		ORDER BY wls.exercise_id ASC, wls.set_index ASC, wls.id ASC
	`
	rows, err := r.db.Query(ctx, query, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]models.WorkoutLogSetDetail, 0)
	for rows.Next() {
		var set models.WorkoutLogSetDetail
		if err := rows.Scan(
			&set.ID,
			&set.WorkoutLogID,
			&set.ExerciseID,
			&set.SetIndex,
			&set.Reps,
			&set.Load,
			&set.Notes,
			&set.ExerciseName,
		); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sets, nil
}

func (r *WorkoutLogRepository) Update(
	ctx context.Context,
	logID int64,
	userID int64,
	input UpdateWorkoutLogInput,
) (*models.WorkoutLog, error) {
	query := `
		UPDATE workout_logs
		SET session_name = COALESCE($3, session_name),
			workout_date = COALESCE($4::date, workout_date)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + workoutLogColumns
	return r.scanOne(ctx, query, logID, userID, input.SessionName, input.WorkoutDate)
}

func (r *WorkoutLogRepository) Delete(ctx context.Context, logID int64, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *WorkoutLogRepository) scanOne(ctx context.Context, query string, args ...any) (*models.WorkoutLog, error) {
	var log models.WorkoutLog
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&log.ID,
		&log.UserID,
		&log.ProgramID,
		&log.ProgramSessionID,
		&log.SessionName,
		&log.WorkoutDate,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &log, nil
}
