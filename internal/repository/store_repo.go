package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/saeid-a/FlashFitBack/internal/models"
)

type StoreProgramFilter struct {
	Category   string
	Difficulty string
	MinPrice   *float64
	MaxPrice   *float64
}

type CreateStoreProgramInput struct {
	Title         string
	Description   *string
	Price         float64
	DurationWeeks *int
	Difficulty    *string
	Category      *string
	ImageURL      *string
}

type StoreRepository struct {
	db DBTX
}

func NewStoreRepository(db DBTX) *StoreRepository {
	return &StoreRepository{db: db}
}

const storeProgramColumns = `id, title, description, price::float8, duration_weeks, difficulty, category, image_url, created_at`

func (r *StoreRepository) ListPrograms(ctx context.Context, filter StoreProgramFilter) ([]models.StoreProgram, error) {
	whereParts := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if filter.Category != "" {
		args = append(args, filter.Category)
		whereParts = append(whereParts, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		whereParts = append(whereParts, fmt.Sprintf("difficulty = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		whereParts = append(whereParts, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		whereParts = append(whereParts, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := `SELECT ` + storeProgramColumns + ` FROM store_programs`
	if len(whereParts) > 0 {
		query += " WHERE " + strings.Join(whereParts, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.StoreProgram, 0)
	for rows.Next() {
		var program models.StoreProgram
		if err := rows.Scan(
			&program.ID,
			&program.Title,
			&program.Description,
			&program.Price,
			&program.DurationWeeks,
			&program.Difficulty,
			&program.Category,
			&program.ImageURL,
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

func (r *StoreRepository) GetProgram(ctx context.Context, id int64) (*models.StoreProgram, error) {
	query := `SELECT ` + storeProgramColumns + ` FROM store_programs WHERE id = $1`

	var program models.StoreProgram
	err := r.db.QueryRow(ctx, query, id).Scan(
		&program.ID,
		&program.Title,
		&program.Description,
		&program.Price,
		&program.DurationWeeks,
		&program.Difficulty,
		&program.Category,
		&program.ImageURL,
		&program.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *StoreRepository) CreateProgram(ctx context.Context, input CreateStoreProgramInput) (int64, error) {
	query := `
		INSERT INTO store_programs (title, description, price, duration_weeks, difficulty, category, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		input.Title,
		input.Description,
		input.Price,
		input.DurationWeeks,
		input.Difficulty,
		input.Category,
		input.ImageURL,
	).Scan(&id)
	return id, err
}

func (r *StoreRepository) CountPrograms(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM store_programs`).Scan(&count)
	return count, err
}

// CreatePurchase fails with a unique violation when the user already owns
// the program.
func (r *StoreRepository) CreatePurchase(ctx context.Context, userID int64, programID int64) (*models.Purchase, error) {
	query := `
		INSERT INTO program_purchases (user_id, store_program_id)
		VALUES ($1, $2)
		RETURNING id, user_id, store_program_id, status, purchased_at
	`
	var purchase models.Purchase
	err := r.db.QueryRow(ctx, query, userID, programID).Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.StoreProgramID,
		&purchase.Status,
		&purchase.PurchasedAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *StoreRepository) ListPurchases(ctx context.Context, userID int64) ([]models.PurchasedProgram, error) {
	query := `
		SELECT sp.id, sp.title, sp.description, sp.price::float8, sp.duration_weeks, sp.difficulty,
			sp.category, sp.image_url, sp.created_at, pp.id, pp.status, pp.purchased_at
		FROM program_purchases pp
		JOIN store_programs sp ON sp.id = pp.store_program_id
		WHERE pp.user_id = $1
		ORDER BY pp.purchased_at DESC, pp.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]models.PurchasedProgram, 0)
	for rows.Next() {
		var purchased models.PurchasedProgram
		if err := rows.Scan(
			&purchased.ID,
			&purchased.Title,
			&purchased.Description,
			&purchased.Price,
			&purchased.DurationWeeks,
			&purchased.Difficulty,
			&purchased.Category,
			&purchased.ImageURL,
			&purchased.CreatedAt,
			&purchased.PurchaseID,
			&purchased.Status,
			&purchased.PurchasedAt,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, purchased)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return purchases, nil
}
