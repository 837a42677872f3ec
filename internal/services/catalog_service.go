package services

import (
	"context"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

type exerciseStore interface {
	List(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error)
	GetByID(ctx context.Context, id int64) (*models.Exercise, error)
	ListAlternatives(ctx context.Context, exercise *models.Exercise) ([]models.Exercise, error)
	LatestPerformances(ctx context.Context, userID int64, exerciseIDs []int64) (map[int64]models.Performance, error)
	History(ctx context.Context, userID int64, exerciseID int64) ([]models.ExerciseHistoryEntry, error)
}

type CatalogService struct {
	exercises exerciseStore
}

func NewCatalogService(exercises exerciseStore) *CatalogService {
	return &CatalogService{exercises: exercises}
}

func (s *CatalogService) ListExercises(ctx context.Context, filter repository.ExerciseFilter) ([]models.Exercise, error) {
	filter.MuscleGroup = strings.TrimSpace(filter.MuscleGroup)
	filter.MovementType = strings.TrimSpace(filter.MovementType)
	return s.exercises.List(ctx, filter)
}

// GetAlternatives suggests exercises sharing the muscle group or movement
// type, each with the caller's most recent performance when one exists.
func (s *CatalogService) GetAlternatives(
	ctx context.Context,
	userID int64,
	exerciseID int64,
) ([]models.ExerciseAlternative, error) {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, mapNoRows(err, ErrExerciseNotFound)
	}

	candidates, err := s.exercises.ListAlternatives(ctx, exercise)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(candidates))
	for _, candidate := range candidates {
		ids = append(ids, candidate.ID)
	}

	performances, err := s.exercises.LatestPerformances(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	alternatives := make([]models.ExerciseAlternative, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == exercise.ID {
			continue
		}
		alternatives = append(alternatives, models.ExerciseAlternative{
			Exercise:    candidate,
			Performance: performances[candidate.ID],
		})
	}

	return alternatives, nil
}

func (s *CatalogService) GetHistory(
	ctx context.Context,
	userID int64,
	exerciseID int64,
) ([]models.ExerciseHistoryEntry, error) {
	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		return nil, mapNoRows(err, ErrExerciseNotFound)
	}
	return s.exercises.History(ctx, userID, exerciseID)
}
