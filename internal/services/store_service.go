package services

import (
	"context"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

type storeCatalog interface {
	ListPrograms(ctx context.Context, filter repository.StoreProgramFilter) ([]models.StoreProgram, error)
	GetProgram(ctx context.Context, id int64) (*models.StoreProgram, error)
	CreatePurchase(ctx context.Context, userID int64, programID int64) (*models.Purchase, error)
	ListPurchases(ctx context.Context, userID int64) ([]models.PurchasedProgram, error)
}

type StoreService struct {
	catalog storeCatalog
}

func NewStoreService(catalog storeCatalog) *StoreService {
	return &StoreService{catalog: catalog}
}

func (s *StoreService) ListPrograms(
	ctx context.Context,
	filter repository.StoreProgramFilter,
) ([]models.StoreProgram, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Difficulty = strings.TrimSpace(filter.Difficulty)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, NewValidationError("minPrice", "minPrice cannot exceed maxPrice")
	}
	return s.catalog.ListPrograms(ctx, filter)
}

func (s *StoreService) GetProgram(ctx context.Context, programID int64) (*models.StoreProgram, error) {
	program, err := s.catalog.GetProgram(ctx, programID)
	if err != nil {
		return nil, mapNoRows(err, ErrStoreProgramNotFound)
	}
	return program, nil
}

func (s *StoreService) Purchase(ctx context.Context, userID int64, programID int64) (*models.Purchase, error) {
	program, err := s.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	purchase, err := s.catalog.CreatePurchase(ctx, userID, program.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}

	purchase.ProgramTitle = program.Title
	purchase.Price = program.Price
	return purchase, nil
}

func (s *StoreService) ListPurchases(ctx context.Context, userID int64) ([]models.PurchasedProgram, error) {
	return s.catalog.ListPurchases(ctx, userID)
}
