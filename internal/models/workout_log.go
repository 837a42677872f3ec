package models

import "time"

type WorkoutLog struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	ProgramID        *int64    `json:"program_id"`
	ProgramSessionID *int64    `json:"program_session_id"`
	SessionName      string    `json:"session_name"`
	WorkoutDate      string    `json:"workout_date"`
	CreatedAt        time.Time `json:"created_at"`
}

type WorkoutLogSet struct {
	ID           int64    `json:"id"`
	WorkoutLogID int64    `json:"workout_log_id"`
	ExerciseID   int64    `json:"exercise_id"`
	SetIndex     int      `json:"set_index"`
	Reps         *int     `json:"reps"`
	Load         *float64 `json:"load"`
	Notes        *string  `json:"notes"`
}

type WorkoutLogSetDetail struct {
	WorkoutLogSet
	ExerciseName string `json:"exercise_name"`
}

type LoggedExercise struct {
	ExerciseID   int64           `json:"exercise_id"`
	ExerciseName string          `json:"exercise_name"`
	Sets         []WorkoutLogSet `json:"sets"`
}

type WorkoutLogDetail struct {
	WorkoutLog
	Exercises []LoggedExercise `json:"exercises"`
}
