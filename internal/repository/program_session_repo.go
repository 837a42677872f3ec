package repository

import (
	"context"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type CreateProgramSessionInput struct {
	ProgramID int64
	Name      string
	SortOrder int
}

type UpdateProgramSessionInput struct {
	Name      *string
	SortOrder *int
}

type ProgramSessionRepository struct {
	db DBTX
}

func NewProgramSessionRepository(db DBTX) *ProgramSessionRepository {
	return &ProgramSessionRepository{db: db}
}

func (r *ProgramSessionRepository) Create(
	ctx context.Context,
	input CreateProgramSessionInput,
) (*models.ProgramSession, error) {
	query := `
		INSERT INTO program_sessions (program_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, program_id, name, sort_order
	`
	return r.scanOne(ctx, query, input.ProgramID, input.Name, input.SortOrder)
}

func (r *ProgramSessionRepository) ListByProgram(ctx context.Context, programID int64) ([]models.ProgramSession, error) {
	query := `
		SELECT id, program_id, name, sort_order
		FROM program_sessions
		WHERE program_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.ProgramSession, 0)
	for rows.Next() {
		var session models.ProgramSession
		if err := rows.Scan(&session.ID, &session.ProgramID, &session.Name, &session.SortOrder); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *ProgramSessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.ProgramSession, error) {
	query := `
		SELECT id, program_id, name, sort_order
		FROM program_sessions
		WHERE id = $1
	`
	return r.scanOne(ctx, query, sessionID)
}

func (r *ProgramSessionRepository) GetInProgram(
	ctx context.Context,
	programID int64,
	sessionID int64,
) (*models.ProgramSession, error) {
	query := `
		SELECT id, program_id, name, sort_order
		FROM program_sessions
		WHERE id = $1 AND program_id = $2
	`
	return r.scanOne(ctx, query, sessionID, programID)
}

func (r *ProgramSessionRepository) NextSortOrder(ctx context.Context, programID int64) (int, error) {
	var next int
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM program_sessions WHERE program_id = $1`,
		programID,
	).Scan(&next)
	return next, err
}

func (r *ProgramSessionRepository) Update(
	ctx context.Context,
	programID int64,
	sessionID int64,
	input UpdateProgramSessionInput,
) (*models.ProgramSession, error) {
	query := `
		UPDATE program_sessions
		SET name = COALESCE($3, name),
			sort_order = COALESCE($4, sort_order)
		WHERE id = $1 AND program_id = $2
		RETURNING id, program_id, name, sort_order
	`
	return r.scanOne(ctx, query, sessionID, programID, input.Name, input.SortOrder)
}

func (r *ProgramSessionRepository) Delete(ctx context.Context, programID int64, sessionID int64) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM program_sessions WHERE id = $1 AND program_id = $2`,
		sessionID,
		programID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ProgramSessionRepository) scanOne(ctx context.Context, query string, args ...any) (*models.ProgramSession, error) {
	var session models.ProgramSession
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&session.ID, &session.ProgramID, &session.Name, &session.SortOrder)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
