package repository

import (
	"context"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type CreateWorkoutProgramInput struct {
	Name        string
	Description string
	UserID      *int64
	IsPreloaded bool
}

type UpdateWorkoutProgramInput struct {
	Name        *string
	Description *string
}

type WorkoutProgramRepository struct {
	db DBTX
}

func NewWorkoutProgramRepository(db DBTX) *WorkoutProgramRepository {
	return &WorkoutProgramRepository{db: db}
}

func (r *WorkoutProgramRepository) Create(
	ctx context.Context,
	input CreateWorkoutProgramInput,
) (*models.WorkoutProgram, error) {
	query := `
		INSERT INTO workout_programs (name, description, user_id, is_preloaded)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, user_id, is_preloaded, created_at
	`
	return r.scanOne(ctx, query, input.Name, input.Description, input.UserID, input.IsPreloaded)
}

// ListVisible returns the preloaded programs plus the ones owned by userID,
// preloaded first and then by name.
func (r *WorkoutProgramRepository) ListVisible(ctx context.Context, userID int64) ([]models.WorkoutProgram, error) {
	query := `
		SELECT id, name, description, user_id, is_preloaded, created_at
		FROM workout_programs
		WHERE is_preloaded = TRUE OR user_id = $1
		ORDER BY is_preloaded DESC, name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.WorkoutProgram, 0)
	for rows.Next() {
		var program models.WorkoutProgram
		if err := rows.Scan(
			&program.ID,
			&program.Name,
			&program.Description,
			&program.UserID,
			&program.IsPreloaded,
			&program.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *WorkoutProgramRepository) GetByID(ctx context.Context, programID int64) (*models.WorkoutProgram, error) {
	query := `
		SELECT id, name, description, user_id, is_preloaded, created_at
		FROM workout_programs
		WHERE id = $1
	`
	return r.scanOne(ctx, query, programID)
}

func (r *WorkoutProgramRepository) Update(
	ctx context.Context,
	programID int64,
	input UpdateWorkoutProgramInput,
) (*models.WorkoutProgram, error) {
	query := `
		UPDATE workout_programs
		SET name = COALESCE($2, name),
			description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, user_id, is_preloaded, created_at
	`
	return r.scanOne(ctx, query, programID, input.Name, input.Description)
}

func (r *WorkoutProgramRepository) Delete(ctx context.Context, programID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_programs WHERE id = $1`, programID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *WorkoutProgramRepository) CountPreloaded(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM workout_programs WHERE is_preloaded = TRUE`).Scan(&count)
	return count, err
}

func (r *WorkoutProgramRepository) scanOne(ctx context.Context, query string, args ...any) (*models.WorkoutProgram, error) {
	var program models.WorkoutProgram
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&program.ID,
		&program.Name,
		&program.Description,
		&program.UserID,
		&program.IsPreloaded,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}
