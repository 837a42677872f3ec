package services

import "github.com/saeid-a/FlashFitBack/internal/models"

type programAccess int

const (
	accessNone programAccess = iota
	accessRead
	accessWrite
)

// accessFor is the single ownership rule for programs and everything below
// them. Preloaded programs are readable by everyone and writable by nobody.
// Owned programs are invisible to everyone except their owner.
func accessFor(program *models.WorkoutProgram, userID int64) programAccess {
	if program == nil {
		return accessNone
	}

	switch program.Kind() {
	case models.ProgramPreloaded:
		return accessRead
	case models.ProgramOwned:
		if program.OwnedBy(userID) {
			return accessWrite
		}
	}
	return accessNone
}
