package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/saeid-a/FlashFitBack/internal/database"
	"github.com/saeid-a/FlashFitBack/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	testDBOnce sync.Once
	testDBPool *pgxpool.Pool
	testDBErr  error
)

func TestIntegrationBuildProgramAndLogWorkout(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)

	programs := newIntegrationProgramService(pool)
	logs := newIntegrationWorkoutLogService(pool)
	exerciseID := firstExerciseID(t, ctx, pool)

	program, err := programs.CreateProgram(ctx, userID, CreateProgramInput{Name: stringPtr("X")})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	session, err := programs.AddSession(ctx, userID, program.ID, AddSessionInput{Name: stringPtr("Day1")})
	if err != nil {
		t.Fatalf("AddSession: %v", err)
	}
	if _, err := programs.AddExerciseToSession(ctx, userID, program.ID, session.ID, AddSessionExerciseInput{
		ExerciseID:  exerciseID,
		DefaultSets: intPtr(3),
		DefaultReps: intPtr(8),
	}); err != nil {
		t.Fatalf("AddExerciseToSession: %v", err)
	}

	detail, err := programs.GetProgram(ctx, userID, program.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}
	if len(detail.Sessions) != 1 || len(detail.Sessions[0].Exercises) != 1 {
		t.Fatalf("unexpected program detail %+v", detail)
	}
	entry := detail.Sessions[0].Exercises[0]
	if entry.DefaultSets != 3 || entry.DefaultReps != 8 || entry.ExerciseName == "" {
		t.Fatalf("unexpected entry %+v", entry)
	}

	logged, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		ProgramID:        &program.ID,
		ProgramSessionID: &session.ID,
		WorkoutDate:      stringPtr("2024-01-01"),
		Sets:             []LogSetInput{{ExerciseID: exerciseID, Reps: intPtr(10), Load: float64Ptr(50)}},
	})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if logged.WorkoutDate != "2024-01-01" || len(logged.Exercises) != 1 || len(logged.Exercises[0].Sets) != 1 {
		t.Fatalf("unexpected log detail %+v", logged)
	}
	set := logged.Exercises[0].Sets[0]
	if *set.Reps != 10 || *set.Load != 50 {
		t.Fatalf("unexpected set %+v", set)
	}

	if err := programs.DeleteProgram(ctx, userID, program.ID); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	var remaining int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM program_sessions WHERE program_id = $1`, program.ID).Scan(&remaining); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected sessions removed with program, found %d", remaining)
	}

	kept, err := logs.GetLog(ctx, userID, logged.ID)
	if err != nil {
		t.Fatalf("log should outlive its program: %v", err)
	}
	if kept.ProgramID != nil || kept.ProgramSessionID != nil {
		t.Fatalf("expected program references cleared, got %+v", kept.WorkoutLog)
	}
}

func TestIntegrationCopyPreloadedProgram(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	programs := newIntegrationProgramService(pool)

	list, err := programs.ListPrograms(ctx, userID)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(list.Preloaded) == 0 {
		t.Fatal("expected seeded preloaded programs")
	}
	source := list.Preloaded[0]

	copied, err := programs.CreateProgram(ctx, userID, CreateProgramInput{CopyFromID: &source.ID})
	if err != nil {
		t.Fatalf("CreateProgram copy: %v", err)
	}
	original, err := programs.GetProgram(ctx, userID, source.ID)
	if err != nil {
		t.Fatalf("GetProgram: %v", err)
	}

	if copied.Name != source.Name+" (Copy)" || copied.IsPreloaded {
		t.Fatalf("unexpected copy %+v", copied.WorkoutProgram)
	}
	if len(copied.Sessions) != len(original.Sessions) {
		t.Fatalf("expected %d sessions, got %d", len(original.Sessions), len(copied.Sessions))
	}
	for i := range original.Sessions {
		if len(copied.Sessions[i].Exercises) != len(original.Sessions[i].Exercises) {
			t.Fatalf("session %d exercise count differs", i)
		}
	}

	_, err = programs.UpdateProgram(ctx, userID, source.ID, repository.UpdateWorkoutProgramInput{Name: stringPtr("Hijack")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected preloaded program to be read-only, got %v", err)
	}
}

func TestIntegrationDuplicateRegistration(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	auth := NewAuthService(repository.NewUserRepository(pool), testJWTSecret, time.Hour)

	email := fmt.Sprintf("dup-%s@example.com", uuid.NewString())
	first, err := auth.Register(ctx, RegisterInput{Name: "First", Email: email, Password: "secret1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, first.User.ID) })

	if _, err := auth.Register(ctx, RegisterInput{Name: "Second", Email: email, Password: "secret2"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := auth.Login(ctx, email, "secret1"); err != nil {
		t.Fatalf("original credentials must still work: %v", err)
	}
}

func TestIntegrationPurchaseOnce(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	store := NewStoreService(repository.NewStoreRepository(pool))

	catalog, err := store.ListPrograms(ctx, repository.StoreProgramFilter{})
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(catalog) == 0 {
		t.Fatal("expected seeded store catalog")
	}

	if _, err := store.Purchase(ctx, userID, catalog[0].ID); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if _, err := store.Purchase(ctx, userID, catalog[0].ID); !errors.Is(err, ErrAlreadyPurchased) {
		t.Fatalf("expected ErrAlreadyPurchased, got %v", err)
	}

	owned, err := store.ListPurchases(ctx, userID)
	if err != nil {
		t.Fatalf("ListPurchases: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != catalog[0].ID {
		t.Fatalf("unexpected purchases %+v", owned)
	}
}

func integrationTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	testDBOnce.Do(func() {
		_ = godotenv.Load(".env")
		_ = godotenv.Load(filepath.Join("..", "..", ".env"))

		dbURL := os.Getenv("TEST_DB_URL")
		if dbURL == "" {
			testDBErr = fmt.Errorf("TEST_DB_URL is not set")
			return
		}

		if testDBErr = database.MigrateUp(dbURL, filepath.Join("..", "..", "migrations")); testDBErr != nil {
			return
		}

		testDBPool, testDBErr = database.ConnectDB(context.Background(), dbURL, 4)
		if testDBErr != nil {
			return
		}

		log := logrus.New()
		log.SetOutput(io.Discard)
		testDBErr = NewSeedService(testDBPool, log, SeedOptions{}).Seed(context.Background())
	})

	if testDBErr != nil {
		t.Skipf("skipping integration test: %v", testDBErr)
	}
	return testDBPool
}

func newIntegrationProgramService(pool *pgxpool.Pool) *ProgramService {
	return NewProgramService(
		pool,
		repository.NewWorkoutProgramRepository(pool),
		repository.NewProgramSessionRepository(pool),
		repository.NewSessionExerciseRepository(pool),
		nil,
	)
}

func newIntegrationWorkoutLogService(pool *pgxpool.Pool) *WorkoutLogService {
	return NewWorkoutLogService(
		pool,
		repository.NewWorkoutLogRepository(pool),
		repository.NewWorkoutProgramRepository(pool),
		repository.NewProgramSessionRepository(pool),
		nil,
	)
}

func registerTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int64 {
	t.Helper()

	auth := NewAuthService(repository.NewUserRepository(pool), testJWTSecret, time.Hour)
	result, err := auth.Register(ctx, RegisterInput{
		Name:     "Integration User",
		Email:    fmt.Sprintf("it-%s@example.com", uuid.NewString()),
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register test user: %v", err)
	}
	t.Cleanup(func() { cleanupTestUsers(t, ctx, pool, result.User.ID) })
	return result.User.ID
}

func firstExerciseID(t *testing.T, ctx context.Context, pool *pgxpool.Pool) int64 {
	t.Helper()

	ids, err := repository.NewExerciseRepository(pool).ListIDs(ctx)
	if err != nil || len(ids) == 0 {
		t.Fatalf("expected seeded exercises: %v", err)
	}
	return ids[0]
}

func cleanupTestUsers(t *testing.T, ctx context.Context, pool *pgxpool.Pool, userIDs ...int64) {
	t.Helper()

	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = ANY($1)`, userIDs); err != nil {
		t.Errorf("cleanup users: %v", err)
	}
}

func TestIntegrationAlternativesUseLatestLogOnSameDate(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	logs := newIntegrationWorkoutLogService(pool)
	catalog := NewCatalogService(repository.NewExerciseRepository(pool))

	var exerciseID, alternativeID int64
	if err := pool.QueryRow(ctx, `
		SELECT a.id, b.id
		FROM exercises a
		JOIN exercises b ON b.muscle_group = a.muscle_group AND b.id <> a.id
		ORDER BY a.id, b.id
		LIMIT 1
	`).Scan(&exerciseID, &alternativeID); err != nil {
		t.Fatalf("find exercises sharing a muscle group: %v", err)
	}

	earlier, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		WorkoutDate: stringPtr("2024-05-01"),
		Sets: []LogSetInput{
			{ExerciseID: alternativeID, SetIndex: intPtr(0), Reps: intPtr(5), Load: float64Ptr(60)},
			{ExerciseID: alternativeID, SetIndex: intPtr(1), Reps: intPtr(4), Load: float64Ptr(62.5)},
		},
	})
	if err != nil {
		t.Fatalf("CreateLog earlier: %v", err)
	}
	later, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		WorkoutDate: stringPtr("2024-05-01"),
		Sets:        []LogSetInput{{ExerciseID: alternativeID, SetIndex: intPtr(0), Reps: intPtr(3), Load: float64Ptr(70)}},
	})
	if err != nil {
		t.Fatalf("CreateLog later: %v", err)
	}

	if _, err := pool.Exec(ctx, `UPDATE workout_logs SET created_at = $2 WHERE id = $1`, earlier.ID, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("backdate earlier log: %v", err)
	}
	if _, err := pool.Exec(ctx, `UPDATE workout_logs SET created_at = $2 WHERE id = $1`, later.ID, time.Now()); err != nil {
		t.Fatalf("stamp later log: %v", err)
	}

	alternatives, err := catalog.GetAlternatives(ctx, userID, exerciseID)
	if err != nil {
		t.Fatalf("GetAlternatives: %v", err)
	}
	var found bool
	for _, alternative := range alternatives {
		if alternative.ID == exerciseID {
			t.Fatalf("alternatives must not include the exercise itself")
		}
		if alternative.ID != alternativeID {
			continue
		}
		found = true
		if alternative.Load == nil || *alternative.Load != 70 || alternative.Reps == nil || *alternative.Reps != 3 {
			t.Fatalf("expected the later log's performance, got %+v", alternative.Performance)
		}
		if alternative.Date == nil || *alternative.Date != "2024-05-01" {
			t.Fatalf("unexpected performance date %v", alternative.Date)
		}
	}
	if !found {
		t.Fatalf("exercise %d missing from alternatives", alternativeID)
	}
}

func TestIntegrationHistoryNewestWorkoutFirst(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	logs := newIntegrationWorkoutLogService(pool)
	catalog := NewCatalogService(repository.NewExerciseRepository(pool))
	exerciseID := firstExerciseID(t, ctx, pool)

	older, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		WorkoutDate: stringPtr("2024-02-01"),
		Sets:        []LogSetInput{{ExerciseID: exerciseID, Reps: intPtr(8), Load: float64Ptr(40)}},
	})
	if err != nil {
		t.Fatalf("CreateLog older: %v", err)
	}
	newer, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		WorkoutDate: stringPtr("2024-03-01"),
		Sets: []LogSetInput{
			{ExerciseID: exerciseID, SetIndex: intPtr(1), Reps: intPtr(6), Load: float64Ptr(47.5)},
			{ExerciseID: exerciseID, SetIndex: intPtr(0), Reps: intPtr(8), Load: float64Ptr(45)},
		},
	})
	if err != nil {
		t.Fatalf("CreateLog newer: %v", err)
	}

	history, err := catalog.GetHistory(ctx, userID, exerciseID)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected two workouts, got %d", len(history))
	}
	if history[0].WorkoutLogID != newer.ID || history[1].WorkoutLogID != older.ID {
		t.Fatalf("expected newest workout first, got %d then %d", history[0].WorkoutLogID, history[1].WorkoutLogID)
	}
	sets := history[0].Sets
	if len(sets) != 2 || sets[0].SetIndex != 0 || sets[1].SetIndex != 1 {
		t.Fatalf("expected sets in set order, got %+v", sets)
	}
}

func TestIntegrationListLogsSingleDayRange(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	logs := newIntegrationWorkoutLogService(pool)

	inRange, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{WorkoutDate: stringPtr("2024-04-10")})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}
	if _, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{WorkoutDate: stringPtr("2024-04-11")}); err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	listed, err := logs.ListLogs(ctx, userID, WorkoutLogFilter{From: "2024-04-10", To: "2024-04-10"})
	if err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != inRange.ID {
		t.Fatalf("expected only log %d, got %+v", inRange.ID, listed)
	}
}

func TestIntegrationUpdateLogReplacesSets(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	userID := registerTestUser(t, ctx, pool)
	logs := newIntegrationWorkoutLogService(pool)
	exerciseID := firstExerciseID(t, ctx, pool)

	created, err := logs.CreateLog(ctx, userID, CreateWorkoutLogInput{
		WorkoutDate: stringPtr("2024-06-01"),
		Sets: []LogSetInput{
			{ExerciseID: exerciseID, SetIndex: intPtr(0), Reps: intPtr(10), Load: float64Ptr(20)},
			{ExerciseID: exerciseID, SetIndex: intPtr(1), Reps: intPtr(10), Load: float64Ptr(20)},
		},
	})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	replacement := []LogSetInput{{ExerciseID: exerciseID, SetIndex: intPtr(0), Reps: intPtr(12), Load: float64Ptr(25)}}
	updated, err := logs.UpdateLog(ctx, userID, created.ID, UpdateWorkoutLogInput{Sets: &replacement})
	if err != nil {
		t.Fatalf("UpdateLog: %v", err)
	}
	if len(updated.Exercises) != 1 || len(updated.Exercises[0].Sets) != 1 {
		t.Fatalf("expected one replacement set, got %+v", updated.Exercises)
	}
	set := updated.Exercises[0].Sets[0]
	if *set.Reps != 12 || *set.Load != 25 {
		t.Fatalf("unexpected set %+v", set)
	}

	var stored int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM workout_log_sets WHERE workout_log_id = $1`, created.ID).Scan(&stored); err != nil {
		t.Fatalf("count sets: %v", err)
	}
	if stored != 1 {
		t.Fatalf("expected old sets removed, found %d rows", stored)
	}
}

func TestIntegrationOtherUserCannotReachPrivateRecords(t *testing.T) {
	ctx := context.Background()
	pool := integrationTestPool(t)
	ownerUserID := registerTestUser(t, ctx, pool)
	otherUserID := registerTestUser(t, ctx, pool)
	programs := newIntegrationProgramService(pool)
	logs := newIntegrationWorkoutLogService(pool)

	program, err := programs.CreateProgram(ctx, ownerUserID, CreateProgramInput{Name: stringPtr("Private")})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	logged, err := logs.CreateLog(ctx, ownerUserID, CreateWorkoutLogInput{WorkoutDate: stringPtr("2024-07-01")})
	if err != nil {
		t.Fatalf("CreateLog: %v", err)
	}

	if _, err := logs.GetLog(ctx, otherUserID, logged.ID); !errors.Is(err, ErrWorkoutLogNotFound) {
		t.Fatalf("GetLog: expected ErrWorkoutLogNotFound, got %v", err)
	}
	if err := logs.DeleteLog(ctx, otherUserID, logged.ID); !errors.Is(err, ErrWorkoutLogNotFound) {
		t.Fatalf("DeleteLog: expected ErrWorkoutLogNotFound, got %v", err)
	}
	if _, err := programs.GetProgram(ctx, otherUserID, program.ID); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("GetProgram: expected ErrProgramNotFound, got %v", err)
	}
	if err := programs.DeleteProgram(ctx, otherUserID, program.ID); !errors.Is(err, ErrProgramNotFound) {
		t.Fatalf("DeleteProgram: expected ErrProgramNotFound, got %v", err)
	}

	if _, err := logs.GetLog(ctx, ownerUserID, logged.ID); err != nil {
		t.Fatalf("owner lost the log: %v", err)
	}
	if _, err := programs.GetProgram(ctx, ownerUserID, program.ID); err != nil {
		t.Fatalf("owner lost the program: %v", err)
	}
}
