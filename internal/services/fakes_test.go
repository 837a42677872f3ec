package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
)

var (
	errForeignKey = &pgconn.PgError{Code: "23503", Message: "foreign key violation"}
	errUnique     = &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
)

// memoryDB mimics the tables the program and log services touch, including
// the cascades and foreign keys the schema enforces.
type memoryDB struct {
	nextID    int64
	exercises map[int64]models.Exercise
	programs  map[int64]models.WorkoutProgram
	sessions  map[int64]models.ProgramSession
	entries   map[int64]models.SessionExercise
	logs      map[int64]models.WorkoutLog
	sets      map[int64]models.WorkoutLogSet
}

func newMemoryDB(exercises ...models.Exercise) *memoryDB {
	db := &memoryDB{
		exercises: make(map[int64]models.Exercise),
		programs:  make(map[int64]models.WorkoutProgram),
		sessions:  make(map[int64]models.ProgramSession),
		entries:   make(map[int64]models.SessionExercise),
		logs:      make(map[int64]models.WorkoutLog),
		sets:      make(map[int64]models.WorkoutLogSet),
	}
	for _, exercise := range exercises {
		db.exercises[exercise.ID] = exercise
	}
	db.nextID = 1000
	return db
}

func (db *memoryDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memoryDB) snapshot() *memoryDB {
	copied := &memoryDB{
		nextID:    db.nextID,
		exercises: make(map[int64]models.Exercise, len(db.exercises)),
		programs:  make(map[int64]models.WorkoutProgram, len(db.programs)),
		sessions:  make(map[int64]models.ProgramSession, len(db.sessions)),
		entries:   make(map[int64]models.SessionExercise, len(db.entries)),
		logs:      make(map[int64]models.WorkoutLog, len(db.logs)),
		sets:      make(map[int64]models.WorkoutLogSet, len(db.sets)),
	}
	for k, v := range db.exercises {
		copied.exercises[k] = v
	}
	for k, v := range db.programs {
		copied.programs[k] = v
	}
	for k, v := range db.sessions {
		copied.sessions[k] = v
	}
	for k, v := range db.entries {
		copied.entries[k] = v
	}
	for k, v := range db.logs {
		copied.logs[k] = v
	}
	for k, v := range db.sets {
		copied.sets[k] = v
	}
	return copied
}

func (db *memoryDB) restore(from *memoryDB) {
	*db = *from
}

// inTx runs fn and rolls every table back when it fails.
func (db *memoryDB) inTx(fn func() error) error {
	saved := db.snapshot()
	if err := fn(); err != nil {
		db.restore(saved)
		return err
	}
	return nil
}

func (db *memoryDB) addProgram(name string, owner *int64, preloaded bool) models.WorkoutProgram {
	program := models.WorkoutProgram{
		ID:          db.id(),
		Name:        name,
		UserID:      owner,
		IsPreloaded: preloaded,
		CreatedAt:   time.Now().UTC(),
	}
	db.programs[program.ID] = program
	return program
}

func (db *memoryDB) addSession(programID int64, name string, sortOrder int) models.ProgramSession {
	session := models.ProgramSession{ID: db.id(), ProgramID: programID, Name: name, SortOrder: sortOrder}
	db.sessions[session.ID] = session
	return session
}

func (db *memoryDB) addEntry(sessionID, exerciseID int64, sets, reps, sortOrder int) models.SessionExercise {
	entry := models.SessionExercise{
		ID:               db.id(),
		ProgramSessionID: sessionID,
		ExerciseID:       exerciseID,
		DefaultSets:      sets,
		DefaultReps:      reps,
		SortOrder:        sortOrder,
	}
	db.entries[entry.ID] = entry
	return entry
}

func (db *memoryDB) deleteSessionCascade(sessionID int64) {
	delete(db.sessions, sessionID)
	for id, entry := range db.entries {
		if entry.ProgramSessionID == sessionID {
			delete(db.entries, id)
		}
	}
	for id, log := range db.logs {
		if log.ProgramSessionID != nil && *log.ProgramSessionID == sessionID {
			log.ProgramSessionID = nil
			db.logs[id] = log
		}
	}
}

type memoryProgramRepo struct{ db *memoryDB }

func (r memoryProgramRepo) Create(_ context.Context, input repository.CreateWorkoutProgramInput) (*models.WorkoutProgram, error) {
	program := r.db.addProgram(input.Name, input.UserID, input.IsPreloaded)
	program.Description = input.Description
	r.db.programs[program.ID] = program
	return &program, nil
}

func (r memoryProgramRepo) ListVisible(_ context.Context, userID int64) ([]models.WorkoutProgram, error) {
	programs := make([]models.WorkoutProgram, 0)
	for _, program := range r.db.programs {
		if program.IsPreloaded || (program.UserID != nil && *program.UserID == userID) {
			programs = append(programs, program)
		}
	}
	sort.Slice(programs, func(i, j int) bool {
		if programs[i].IsPreloaded != programs[j].IsPreloaded {
			return programs[i].IsPreloaded
		}
		return programs[i].Name < programs[j].Name
	})
	return programs, nil
}

func (r memoryProgramRepo) GetByID(_ context.Context, programID int64) (*models.WorkoutProgram, error) {
	program, ok := r.db.programs[programID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &program, nil
}

func (r memoryProgramRepo) Update(
	_ context.Context,
	programID int64,
	input repository.UpdateWorkoutProgramInput,
) (*models.WorkoutProgram, error) {
	program, ok := r.db.programs[programID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if input.Name != nil {
		program.Name = *input.Name
	}
	if input.Description != nil {
		program.Description = *input.Description
	}
	r.db.programs[programID] = program
	return &program, nil
}

func (r memoryProgramRepo) Delete(_ context.Context, programID int64) (int64, error) {
	if _, ok := r.db.programs[programID]; !ok {
		return 0, nil
	}
	delete(r.db.programs, programID)
	for id, session := range r.db.sessions {
		if session.ProgramID == programID {
			r.db.deleteSessionCascade(id)
		}
	}
	for id, log := range r.db.logs {
		if log.ProgramID != nil && *log.ProgramID == programID {
			log.ProgramID = nil
			r.db.logs[id] = log
		}
	}
	return 1, nil
}

type memorySessionRepo struct{ db *memoryDB }

func (r memorySessionRepo) Create(_ context.Context, input repository.CreateProgramSessionInput) (*models.ProgramSession, error) {
	if _, ok := r.db.programs[input.ProgramID]; !ok {
		return nil, errForeignKey
	}
	session := r.db.addSession(input.ProgramID, input.Name, input.SortOrder)
	return &session, nil
}

func (r memorySessionRepo) ListByProgram(_ context.Context, programID int64) ([]models.ProgramSession, error) {
	sessions := make([]models.ProgramSession, 0)
	for _, session := range r.db.sessions {
		if session.ProgramID == programID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].SortOrder != sessions[j].SortOrder {
			return sessions[i].SortOrder < sessions[j].SortOrder
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}

func (r memorySessionRepo) GetByID(_ context.Context, sessionID int64) (*models.ProgramSession, error) {
	session, ok := r.db.sessions[sessionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &session, nil
}

func (r memorySessionRepo) GetInProgram(_ context.Context, programID int64, sessionID int64) (*models.ProgramSession, error) {
	session, ok := r.db.sessions[sessionID]
	if !ok || session.ProgramID != programID {
		return nil, pgx.ErrNoRows
	}
	return &session, nil
}

func (r memorySessionRepo) NextSortOrder(_ context.Context, programID int64) (int, error) {
	next := 0
	for _, session := range r.db.sessions {
		if session.ProgramID == programID && session.SortOrder >= next {
			next = session.SortOrder + 1
		}
	}
	return next, nil
}

func (r memorySessionRepo) Update(
	_ context.Context,
	programID int64,
	sessionID int64,
	input repository.UpdateProgramSessionInput,
) (*models.ProgramSession, error) {
	session, ok := r.db.sessions[sessionID]
	if !ok || session.ProgramID != programID {
		return nil, pgx.ErrNoRows
	}
	if input.Name != nil {
		session.Name = *input.Name
	}
	if input.SortOrder != nil {
		session.SortOrder = *input.SortOrder
	}
	r.db.sessions[sessionID] = session
	return &session, nil
}

func (r memorySessionRepo) Delete(_ context.Context, programID int64, sessionID int64) (int64, error) {
	session, ok := r.db.sessions[sessionID]
	if !ok || session.ProgramID != programID {
		return 0, nil
	}
	r.db.deleteSessionCascade(sessionID)
	return 1, nil
}

type memoryEntryRepo struct{ db *memoryDB }

func (r memoryEntryRepo) Create(_ context.Context, input repository.CreateSessionExerciseInput) (*models.SessionExercise, error) {
	if _, ok := r.db.exercises[input.ExerciseID]; !ok {
		return nil, errForeignKey
	}
	entry := r.db.addEntry(input.ProgramSessionID, input.ExerciseID, input.DefaultSets, input.DefaultReps, input.SortOrder)
	return &entry, nil
}

func (r memoryEntryRepo) ListBySession(_ context.Context, sessionID int64) ([]models.SessionExercise, error) {
	entries := make([]models.SessionExercise, 0)
	for _, entry := range r.db.entries {
		if entry.ProgramSessionID == sessionID {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (r memoryEntryRepo) ListDetailsBySessions(_ context.Context, sessionIDs []int64) ([]models.SessionExerciseDetail, error) {
	wanted := make(map[int64]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}

	entries := make([]models.SessionExercise, 0)
	for _, entry := range r.db.entries {
		if wanted[entry.ProgramSessionID] {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)

	details := make([]models.SessionExerciseDetail, 0, len(entries))
	for _, entry := range entries {
		exercise := r.db.exercises[entry.ExerciseID]
		details = append(details, models.SessionExerciseDetail{
			SessionExercise: entry,
			ExerciseName:    exercise.Name,
			MuscleGroup:     exercise.MuscleGroup,
			MovementType:    exercise.MovementType,
		})
	}
	return details, nil
}

func (r memoryEntryRepo) NextSortOrder(_ context.Context, sessionID int64) (int, error) {
	next := 0
	for _, entry := range r.db.entries {
		if entry.ProgramSessionID == sessionID && entry.SortOrder >= next {
			next = entry.SortOrder + 1
		}
	}
	return next, nil
}

func (r memoryEntryRepo) Update(
	_ context.Context,
	sessionID int64,
	entryID int64,
	input repository.UpdateSessionExerciseInput,
) (*models.SessionExercise, error) {
	entry, ok := r.db.entries[entryID]
	if !ok || entry.ProgramSessionID != sessionID {
		return nil, pgx.ErrNoRows
	}
	if input.ExerciseID != nil {
		if _, ok := r.db.exercises[*input.ExerciseID]; !ok {
			return nil, errForeignKey
		}
		entry.ExerciseID = *input.ExerciseID
	}
	if input.DefaultSets != nil {
		entry.DefaultSets = *input.DefaultSets
	}
	if input.DefaultReps != nil {
		entry.DefaultReps = *input.DefaultReps
	}
	if input.SortOrder != nil {
		entry.SortOrder = *input.SortOrder
	}
	r.db.entries[entryID] = entry
	return &entry, nil
}

func (r memoryEntryRepo) Delete(_ context.Context, sessionID int64, entryID int64) (int64, error) {
	entry, ok := r.db.entries[entryID]
	if !ok || entry.ProgramSessionID != sessionID {
		return 0, nil
	}
	delete(r.db.entries, entryID)
	return 1, nil
}

func sortEntries(entries []models.SessionExercise) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ProgramSessionID != entries[j].ProgramSessionID {
			return entries[i].ProgramSessionID < entries[j].ProgramSessionID
		}
		if entries[i].SortOrder != entries[j].SortOrder {
			return entries[i].SortOrder < entries[j].SortOrder
		}
		return entries[i].ID < entries[j].ID
	})
}

type memoryLogRepo struct{ db *memoryDB }

func (r memoryLogRepo) Create(_ context.Context, input repository.CreateWorkoutLogInput) (*models.WorkoutLog, error) {
	log := models.WorkoutLog{
		ID:               r.db.id(),
		UserID:           input.UserID,
		ProgramID:        input.ProgramID,
		ProgramSessionID: input.ProgramSessionID,
		SessionName:      input.SessionName,
		WorkoutDate:      input.WorkoutDate,
		CreatedAt:        time.Now().UTC(),
	}
	r.db.logs[log.ID] = log
	return &log, nil
}

func (r memoryLogRepo) InsertSet(_ context.Context, logID int64, input repository.WorkoutLogSetInput) (*models.WorkoutLogSet, error) {
	if _, ok := r.db.exercises[input.ExerciseID]; !ok {
		return nil, errForeignKey
	}
	set := models.WorkoutLogSet{
		ID:           r.db.id(),
		WorkoutLogID: logID,
		ExerciseID:   input.ExerciseID,
		SetIndex:     input.SetIndex,
		Reps:         input.Reps,
		Load:         input.Load,
		Notes:        input.Notes,
	}
	r.db.sets[set.ID] = set
	return &set, nil
}

func (r memoryLogRepo) DeleteSets(_ context.Context, logID int64) error {
	for id, set := range r.db.sets {
		if set.WorkoutLogID == logID {
			delete(r.db.sets, id)
		}
	}
	return nil
}

func (r memoryLogRepo) List(_ context.Context, filter repository.WorkoutLogFilter) ([]models.WorkoutLog, error) {
	logs := make([]models.WorkoutLog, 0)
	for _, log := range r.db.logs {
		if log.UserID != filter.UserID {
			continue
		}
		if filter.From != "" && log.WorkoutDate < filter.From {
			continue
		}
		if filter.To != "" && log.WorkoutDate > filter.To {
			continue
		}
		if filter.ProgramID != nil && (log.ProgramID == nil || *log.ProgramID != *filter.ProgramID) {
			continue
		}
		logs = append(logs, log)
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].WorkoutDate != logs[j].WorkoutDate {
			return logs[i].WorkoutDate > logs[j].WorkoutDate
		}
		return logs[i].ID > logs[j].ID
	})
	return logs, nil
}

func (r memoryLogRepo) GetForUser(_ context.Context, logID int64, userID int64) (*models.WorkoutLog, error) {
	log, ok := r.db.logs[logID]
	if !ok || log.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return &log, nil
}

func (r memoryLogRepo) ListSets(_ context.Context, logID int64) ([]models.WorkoutLogSetDetail, error) {
	sets := make([]models.WorkoutLogSetDetail, 0)
	for _, set := range r.db.sets {
		if set.WorkoutLogID == logID {
			sets = append(sets, models.WorkoutLogSetDetail{
				WorkoutLogSet: set,
				ExerciseName:  r.db.exercises[set.ExerciseID].Name,
			})
		}
	}
	sort.Slice(sets, func(i, j int) bool {
		if sets[i].ExerciseID != sets[j].ExerciseID {
			return sets[i].ExerciseID < sets[j].ExerciseID
		}
		if sets[i].SetIndex != sets[j].SetIndex {
			return sets[i].SetIndex < sets[j].SetIndex
		}
		return sets[i].ID < sets[j].ID
	})
	return sets, nil
}

func (r memoryLogRepo) Update(
	_ context.Context,
	logID int64,
	userID int64,
	input repository.UpdateWorkoutLogInput,
) (*models.WorkoutLog, error) {
	log, ok := r.db.logs[logID]
	if !ok || log.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	if input.SessionName != nil {
		log.SessionName = *input.SessionName
	}
	if input.WorkoutDate != nil {
		log.WorkoutDate = *input.WorkoutDate
	}
	r.db.logs[logID] = log
	return &log, nil
}

func (r memoryLogRepo) Delete(ctx context.Context, logID int64, userID int64) (int64, error) {
	log, ok := r.db.logs[logID]
	if !ok || log.UserID != userID {
		return 0, nil
	}
	delete(r.db.logs, logID)
	_ = r.DeleteSets(ctx, logID)
	return 1, nil
}

type publishedEvent struct {
	userID int64
	event  models.SyncEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(userID int64, event models.SyncEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{userID: userID, event: event})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, published := range p.events {
		types = append(types, published.event.Type)
	}
	return types
}

func newMemoryProgramService(db *memoryDB, events EventPublisher) *ProgramService {
	stores := programStores{
		programs:  memoryProgramRepo{db: db},
		sessions:  memorySessionRepo{db: db},
		exercises: memoryEntryRepo{db: db},
	}
	return &ProgramService{
		stores: stores,
		inTx: func(_ context.Context, fn func(stores programStores) error) error {
			return db.inTx(func() error { return fn(stores) })
		},
		events: publisherOrNoop(events),
	}
}

func newMemoryWorkoutLogService(db *memoryDB, events EventPublisher, now time.Time) *WorkoutLogService {
	logs := memoryLogRepo{db: db}
	return &WorkoutLogService{
		logs:     logs,
		programs: memoryProgramRepo{db: db},
		sessions: memorySessionRepo{db: db},
		inTx: func(_ context.Context, fn func(logs workoutLogStore) error) error {
			return db.inTx(func() error { return fn(logs) })
		},
		events: publisherOrNoop(events),
		now:    func() time.Time { return now },
	}
}

func testExercises() []models.Exercise {
	return []models.Exercise{
		{ID: 1, Name: "Barbell Bench Press", MuscleGroup: "chest", MovementType: "push"},
		{ID: 2, Name: "Incline Dumbbell Press", MuscleGroup: "chest", MovementType: "push"},
		{ID: 3, Name: "Barbell Row", MuscleGroup: "back", MovementType: "pull"},
		{ID: 4, Name: "Back Squat", MuscleGroup: "legs", MovementType: "squat"},
	}
}

func intPtr(v int) *int { return &v }

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }
