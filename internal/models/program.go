package models

import "time"

type ProgramKind string

const (
	ProgramPreloaded ProgramKind = "preloaded"
	ProgramOwned     ProgramKind = "owned"
)

type WorkoutProgram struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      *int64    `json:"user_id"`
	IsPreloaded bool      `json:"is_preloaded"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p WorkoutProgram) Kind() ProgramKind {
	if p.IsPreloaded {
		return ProgramPreloaded
	}
	return ProgramOwned
}

func (p WorkoutProgram) OwnedBy(userID int64) bool {
	return p.Kind() == ProgramOwned && p.UserID != nil && *p.UserID == userID
}

type ProgramSession struct {
	ID        int64  `json:"id"`
	ProgramID int64  `json:"program_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type SessionExercise struct {
	ID               int64 `json:"id"`
	ProgramSessionID int64 `json:"program_session_id"`
	ExerciseID       int64 `json:"exercise_id"`
	DefaultSets      int   `json:"default_sets"`
	DefaultReps      int   `json:"default_reps"`
	SortOrder        int   `json:"sort_order"`
}

type SessionExerciseDetail struct {
	SessionExercise
	ExerciseName string `json:"exercise_name"`
	MuscleGroup  string `json:"muscle_group"`
	MovementType string `json:"movement_type"`
}

type ProgramSessionDetail struct {
	ProgramSession
	Exercises []SessionExerciseDetail `json:"exercises"`
}

type ProgramDetail struct {
	WorkoutProgram
	Sessions []ProgramSessionDetail `json:"sessions"`
}

type ProgramList struct {
	Programs   []WorkoutProgram `json:"programs"`
	Preloaded  []WorkoutProgram `json:"preloaded"`
	MyPrograms []WorkoutProgram `json:"myPrograms"`
}
