package models

import "time"

type StoreProgram struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Price         float64   `json:"price"`
	DurationWeeks *int      `json:"duration_weeks"`
	Difficulty    *string   `json:"difficulty"`
	Category      *string   `json:"category"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
}

type Purchase struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	StoreProgramID int64     `json:"program_id"`
	ProgramTitle   string    `json:"program_title"`
	Price          float64   `json:"price"`
	Status         string    `json:"status"`
	PurchasedAt    time.Time `json:"purchased_at"`
}

type PurchasedProgram struct {
	StoreProgram
	PurchaseID  int64     `json:"purchase_id"`
	Status      string    `json:"status"`
	PurchasedAt time.Time `json:"purchased_at"`
}
