package services

import (
	"context"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

type contactStore interface {
	Create(ctx context.Context, input repository.CreateContactSubmissionInput) (int64, error)
	List(ctx context.Context) ([]models.ContactSubmission, error)
}

type ContactService struct {
	submissions contactStore
}

func NewContactService(submissions contactStore) *ContactService {
	return &ContactService{submissions: submissions}
}

func (s *ContactService) Submit(ctx context.Context, input repository.CreateContactSubmissionInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = NormalizeEmail(input.Email)
	input.Phone = trimOptional(input.Phone)
	return s.submissions.Create(ctx, input)
}

func (s *ContactService) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	return s.submissions.List(ctx)
}
