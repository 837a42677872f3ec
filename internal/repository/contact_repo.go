package repository

import (
	"context"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type CreateContactSubmissionInput struct {
	Name    string
	Email   string
	Phone   *string
	Message *string
}

type ContactRepository struct {
	db DBTX
}

func NewContactRepository(db DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, input CreateContactSubmissionInput) (int64, error) {
	query := `
		INSERT INTO contact_submissions (name, email, phone, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, input.Name, input.Email, input.Phone, input.Message).Scan(&id)
	return id, err
}

func (r *ContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, phone, message, created_at
		FROM contact_submissions
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	submissions := make([]models.ContactSubmission, 0)
	for rows.Next() {
		var submission models.ContactSubmission
		if err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Phone,
			&submission.Message,
			&submission.CreatedAt,
		); err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
