package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type ExerciseFilter struct {
	MuscleGroup  string
	MovementType string
}

type CreateExerciseInput struct {
	Name         string
	MuscleGroup  string
	MovementType string
	Equipment    *string
}

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) List(ctx context.Context, filter ExerciseFilter) ([]models.Exercise, error) {
	whereParts := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if filter.MuscleGroup != "" {
		args = append(args, filter.MuscleGroup)
		whereParts = append(whereParts, fmt.Sprintf("muscle_group = $%d", len(args)))
	}
	if filter.MovementType != "" {
		args = append(args, filter.MovementType)
		whereParts = append(whereParts, fmt.Sprintf("movement_type = $%d", len(args)))
	}

	query := `
		SELECT id, name, muscle_group, movement_type, equipment
		FROM exercises
	`
	if len(whereParts) > 0 {
		query += " WHERE " + strings.Join(whereParts, " AND ")
	}
	query += " ORDER BY name ASC, id ASC"

	return r.list(ctx, query, args...)
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id int64) (*models.Exercise, error) {
	query := `
		SELECT id, name, muscle_group, movement_type, equipment
		FROM exercises
		WHERE id = $1
	`
	var exercise models.Exercise
	err := r.db.QueryRow(ctx, query, id).Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.MuscleGroup,
		&exercise.MovementType,
		&exercise.Equipment,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// ListAlternatives returns every other exercise sharing the muscle group or
// the movement type of the given one.
func (r *ExerciseRepository) ListAlternatives(ctx context.Context, exercise *models.Exercise) ([]models.Exercise, error) {
	query := `
		SELECT id, name, muscle_group, movement_type, equipment
		FROM exercises
		WHERE id <> $1
			AND (muscle_group = $2 OR movement_type = $3)
		ORDER BY name ASC, id ASC
	`
	return r.list(ctx, query, exercise.ID, exercise.MuscleGroup, exercise.MovementType)
}

func (r *ExerciseRepository) LatestPerformances(
	ctx context.Context,
	userID int64,
	exerciseIDs []int64,
) (map[int64]models.Performance, error) {
	performances := make(map[int64]models.Performance, len(exerciseIDs))
	if len(exerciseIDs) == 0 {
		return performances, nil
	}

	query := `
		SELECT DISTINCT ON (wls.exercise_id)
			wls.exercise_id, wls.load, wls.reps, wl.workout_date::text
		FROM workout_log_sets wls
		JOIN workout_logs wl ON wl.id = wls.workout_log_id
		WHERE wl.user_id = $1
			AND wls.exercise_id = ANY($2)
		ORDER BY wls.exercise_id, wl.workout_date DESC, wl.created_at DESC, wls.set_index DESC, wls.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID, exerciseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var exerciseID int64
		var performance models.Performance
		var date string
		if err := rows.Scan(&exerciseID, &performance.Load, &performance.Reps, &date); err != nil {
			return nil, err
		}
		performance.Date = &date
		performances[exerciseID] = performance
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return performances, nil
}

// History lists the user's sets for one exercise, newest workout first.
func (r *ExerciseRepository) History(
	ctx context.Context,
	userID int64,
	exerciseID int64,
) ([]models.ExerciseHistoryEntry, error) {
	query := `
		SELECT wl.id, wl.session_name, wl.workout_date::text, wl.created_at,
			wls.id, wls.set_index, wls.reps, wls.load, wls.notes
		FROM workout_log_sets wls
		JOIN workout_logs wl ON wl.id = wls.workout_log_id
		WHERE wl.user_id = $1
			AND wls.exercise_id = $2
		ORDER BY wl.workout_date DESC, wl.created_at DESC, wl.id DESC, wls.set_index ASC, wls.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]models.ExerciseHistoryEntry, 0)
	for rows.Next() {
		var entry models.ExerciseHistoryEntry
		var set models.HistorySet
		if err := rows.Scan(
			&entry.WorkoutLogID,
			&entry.SessionName,
			&entry.WorkoutDate,
			&entry.CreatedAt,
			&set.SetID,
			&set.SetIndex,
			&set.Reps,
			&set.Load,
			&set.Notes,
		); err != nil {
			return nil, err
		}

		last := len(history) - 1
		if last >= 0 && history[last].WorkoutLogID == entry.WorkoutLogID {
			history[last].Sets = append(history[last].Sets, set)
			continue
		}
		entry.Sets = []models.HistorySet{set}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}

// EnsureExists inserts the exercise unless one with the same name exists.
func (r *ExerciseRepository) EnsureExists(ctx context.Context, input CreateExerciseInput) error {
	query := `
		INSERT INTO exercises (name, muscle_group, movement_type, equipment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, input.Name, input.MuscleGroup, input.MovementType, input.Equipment)
	return err
}

func (r *ExerciseRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM exercises ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *ExerciseRepository) list(ctx context.Context, query string, args ...any) ([]models.Exercise, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(
			&exercise.ID,
			&exercise.Name,
			&exercise.MuscleGroup,
			&exercise.MovementType,
			&exercise.Equipment,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}
