package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/saeid-a/FlashFitBack/internal/repository"
	"github.com/saeid-a/FlashFitBack/pkg/utils"
	"github.com/sirupsen/logrus"
)

const exercisesPerSeededSession = 4

type SeedOptions struct {
	DefaultUserName     string
	DefaultUserEmail    string
	DefaultUserPassword string
}

type SeedService struct {
	db   *pgxpool.Pool
	log  logrus.FieldLogger
	opts SeedOptions
}

func NewSeedService(db *pgxpool.Pool, log logrus.FieldLogger, opts SeedOptions) *SeedService {
	return &SeedService{db: db, log: log, opts: opts}
}

// Seed loads the canonical catalog, the preloaded programs and the store
// catalog. Running it again changes nothing.
func (s *SeedService) Seed(ctx context.Context) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.seedExercises(ctx, tx); err != nil {
			return fmt.Errorf("seed exercises: %w", err)
		}
		if err := s.seedPrograms(ctx, tx); err != nil {
			return fmt.Errorf("seed programs: %w", err)
		}
		if err := s.seedStore(ctx, tx); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		if err := s.seedDefaultUser(ctx, tx); err != nil {
			return fmt.Errorf("seed default user: %w", err)
		}
		return nil
	})
}

func (s *SeedService) seedExercises(ctx context.Context, tx pgx.Tx) error {
	exercises := repository.NewExerciseRepository(tx)
	for _, exercise := range seedExercises {
		if err := exercises.EnsureExists(ctx, exercise); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedPrograms(ctx context.Context, tx pgx.Tx) error {
	programs := repository.NewWorkoutProgramRepository(tx)
	sessions := repository.NewProgramSessionRepository(tx)
	entries := repository.NewSessionExerciseRepository(tx)

	count, err := programs.CountPreloaded(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	exerciseIDs, err := repository.NewExerciseRepository(tx).ListIDs(ctx)
	if err != nil {
		return err
	}
	if len(exerciseIDs) == 0 {
		return errors.New("exercise catalog is empty")
	}

	for _, seed := range seedPrograms {
		program, err := programs.Create(ctx, repository.CreateWorkoutProgramInput{
			Name:        seed.Name,
			Description: seed.Description,
			IsPreloaded: true,
		})
		if err != nil {
			return err
		}

		for sessionIndex, sessionName := range seed.Sessions {
			session, err := sessions.Create(ctx, repository.CreateProgramSessionInput{
				ProgramID: program.ID,
				Name:      sessionName,
				SortOrder: sessionIndex,
			})
			if err != nil {
				return err
			}

			for order, exerciseID := range seededSessionExercises(exerciseIDs, sessionIndex) {
				if _, err := entries.Create(ctx, repository.CreateSessionExerciseInput{
					ProgramSessionID: session.ID,
					ExerciseID:       exerciseID,
					DefaultSets:      defaultSessionSets,
					DefaultReps:      defaultSessionReps,
					SortOrder:        order,
				}); err != nil {
					return err
				}
			}
		}
	}

	s.log.WithField("programs", len(seedPrograms)).Info("seeded preloaded programs")
	return nil
}

// seededSessionExercises picks the exercises of the n-th session of a
// preloaded program, walking the catalog two steps per session.
func seededSessionExercises(exerciseIDs []int64, sessionIndex int) []int64 {
	picked := make([]int64, 0, exercisesPerSeededSession)
	if len(exerciseIDs) == 0 {
		return picked
	}
	for offset := 0; offset < exercisesPerSeededSession; offset++ {
		picked = append(picked, exerciseIDs[(sessionIndex*2+offset)%len(exerciseIDs)])
	}
	return picked
}

func (s *SeedService) seedStore(ctx context.Context, tx pgx.Tx) error {
	store := repository.NewStoreRepository(tx)

	count, err := store.CountPrograms(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, program := range seedStorePrograms {
		if _, err := store.CreateProgram(ctx, program); err != nil {
			return err
		}
	}

	s.log.WithField("programs", len(seedStorePrograms)).Info("seeded store catalog")
	return nil
}

func (s *SeedService) seedDefaultUser(ctx context.Context, tx pgx.Tx) error {
	if s.opts.DefaultUserEmail == "" || s.opts.DefaultUserPassword == "" {
		return nil
	}

	users := repository.NewUserRepository(tx)
	email := NormalizeEmail(s.opts.DefaultUserEmail)
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := utils.HashPassword(s.opts.DefaultUserPassword)
	if err != nil {
		return err
	}

	name := s.opts.DefaultUserName
	if name == "" {
		name = "Demo User"
	}
	if err := users.CreateUser(ctx, &models.User{Name: name, Email: email, PasswordHash: hash}); err != nil {
		return err
	}

	s.log.WithField("email", email).Info("seeded default user")
	return nil
}
