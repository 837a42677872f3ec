package models

import "time"

type Exercise struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	MuscleGroup  string  `json:"muscle_group"`
	MovementType string  `json:"movement_type"`
	Equipment    *string `json:"equipment"`
}

// Performance is the caller's most recent logged set of an exercise.
type Performance struct {
	Load *float64 `json:"last_load"`
	Reps *int     `json:"last_reps"`
	Date *string  `json:"last_date"`
}

type ExerciseAlternative struct {
	Exercise
	Performance
}

type ExerciseHistoryEntry struct {
	WorkoutLogID int64        `json:"workout_log_id"`
	SessionName  string       `json:"session_name"`
	WorkoutDate  string       `json:"workout_date"`
	CreatedAt    time.Time    `json:"created_at"`
	Sets         []HistorySet `json:"sets"`
}

type HistorySet struct {
	SetID    int64    `json:"set_id"`
	SetIndex int      `json:"set_index"`
	Reps     *int     `json:"reps"`
	Load     *float64 `json:"load"`
	Notes    *string  `json:"notes"`
}
