package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	"github.com/saeid-a/FlashFitBack/internal/database"
	applog "github.com/saeid-a/FlashFitBack/internal/logger"
	"github.com/saeid-a/FlashFitBack/internal/services"
	"github.com/spf13/cobra"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the FlashFit database schema and seed data",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			color.New(color.Faint).Println("No .env file found")
		}
		if os.Getenv("DB_URL") == "" {
			return errors.New("DB_URL environment variable is required")
		}
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			color.Green("✓ Migration up successful")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations, all of them unless steps is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 0
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}

		return withMigrator(func(m *migrate.Migrate) error {
			var err error
			if steps > 0 {
				err = m.Steps(-steps)
			} else {
				err = m.Down()
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			color.Green("✓ Migration down successful")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				color.Yellow("No migrations applied yet")
				return nil
			}
			if err != nil {
				return err
			}
			if dirty {
				color.Red("Schema version %d (dirty)", version)
				return nil
			}
			color.Cyan("Schema version %d", version)
			return nil
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the exercise catalog, preloaded programs and store catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		db, err := database.ConnectDB(ctx, os.Getenv("DB_URL"), 2)
		if err != nil {
			return err
		}
		defer db.Close()

		log := applog.New(applog.Options{Level: os.Getenv("LOG_LEVEL"), Env: os.Getenv("APP_ENV")})
		seeder := services.NewSeedService(db, log, services.SeedOptions{
			DefaultUserName:     os.Getenv("DEFAULT_USER_NAME"),
			DefaultUserEmail:    os.Getenv("DEFAULT_USER_EMAIL"),
			DefaultUserPassword: os.Getenv("DEFAULT_USER_PASSWORD"),
		})
		if err := seeder.Seed(ctx); err != nil {
			return err
		}
		color.Green("✓ Seed data loaded")
		return nil
	},
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	dir := migrationsDir
	if dir == "" {
		dir = os.Getenv("MIGRATIONS_DIR")
	}

	m, err := database.NewMigrator(os.Getenv("DB_URL"), dir)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "", "migrations directory (default: discovered from the working directory)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}
