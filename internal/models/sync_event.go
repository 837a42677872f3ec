package models

import "time"

const (
	EventProgramCreated    = "program.created"
	EventProgramUpdated    = "program.updated"
	EventProgramDeleted    = "program.deleted"
	EventWorkoutLogCreated = "workout_log.created"
	EventWorkoutLogUpdated = "workout_log.updated"
	EventWorkoutLogDeleted = "workout_log.deleted"
)

type SyncEvent struct {
	Type     string    `json:"type"`
	Resource string    `json:"resource"`
	ID       int64     `json:"id"`
	At       time.Time `json:"at"`
}
