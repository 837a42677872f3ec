package routes

import (
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/saeid-a/FlashFitBack/internal/config"
	"github.com/saeid-a/FlashFitBack/internal/handlers"
	"github.com/saeid-a/FlashFitBack/internal/middleware"
	"github.com/saeid-a/FlashFitBack/internal/repository"
	"github.com/saeid-a/FlashFitBack/internal/services"
	syncws "github.com/saeid-a/FlashFitBack/internal/websocket"
)

// Infrastructure carries the process-wide pieces built by the server.
type Infrastructure struct {
	Hub      *syncws.Hub
	Gatherer prometheus.Gatherer
	Limiter  *middleware.RateLimiter
}

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, infra Infrastructure) error {
	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	programRepo := repository.NewWorkoutProgramRepository(db)
	sessionRepo := repository.NewProgramSessionRepository(db)
	sessionExerciseRepo := repository.NewSessionExerciseRepository(db)
	workoutLogRepo := repository.NewWorkoutLogRepository(db)
	contactRepo := repository.NewContactRepository(db)
	storeRepo := repository.NewStoreRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	catalogService := services.NewCatalogService(exerciseRepo)
	programService := services.NewProgramService(db, programRepo, sessionRepo, sessionExerciseRepo, infra.Hub)
	workoutLogService := services.NewWorkoutLogService(db, workoutLogRepo, programRepo, sessionRepo, infra.Hub)
	contactService := services.NewContactService(contactRepo)
	storeService := services.NewStoreService(storeRepo)

	authHandler := handlers.NewAuthHandler(authService)
	exerciseHandler := handlers.NewExerciseHandler(catalogService)
	programHandler := handlers.NewProgramHandler(programService)
	workoutLogHandler := handlers.NewWorkoutLogHandler(workoutLogService)
	contactHandler := handlers.NewContactHandler(contactService)
	storeHandler := handlers.NewStoreHandler(storeService)
	syncHandler := handlers.NewSyncHandler(infra.Hub, cfg.JWTSecret)

	authRequired := middleware.AuthRequired(cfg.JWTSecret)
	limited := infra.Limiter.Handler()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Welcome to the FlashFit API",
			"endpoints": fiber.Map{
				"health":      "GET /api/health",
				"auth":        "POST /api/auth/register, POST /api/auth/login, GET|PUT /api/auth/profile",
				"contact":     "POST /api/contact/submit, GET /api/contact/submissions (admin)",
				"exercises":   "GET /api/exercises, GET /api/exercises/:id/history, GET /api/exercises/:id/alternatives",
				"programs":    "GET|POST /api/programs, GET|PUT|DELETE /api/programs/:id (copy: POST with copyFromId)",
				"sessions":    "POST /api/programs/:id/sessions, PUT|DELETE /api/programs/:id/sessions/:sessionId",
				"workoutLogs": "GET|POST /api/workout-logs, GET|PUT|DELETE /api/workout-logs/:id",
				"store":       "GET /api/store/programs, POST /api/store/programs/:id/purchase, GET /api/store/purchases",
				"sync":        "GET /api/sync/ws?token=",
			},
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{})))

	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":   true,
			"message":   "FlashFit API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/register", limited, authHandler.Register)
	auth.Post("/login", limited, authHandler.Login)
	auth.Get("/profile", authRequired, authHandler.GetProfile)
	auth.Put("/profile", authRequired, authHandler.UpdateProfile)

	contact := api.Group("/contact")
	contact.Post("/submit", limited, contactHandler.Submit)
	contact.Get("/submissions", authRequired, middleware.AdminRequired(cfg.IsAdminEmail), contactHandler.ListSubmissions)

	exercises := api.Group("/exercises")
	exercises.Get("", exerciseHandler.ListExercises)
	exercises.Get("/:id/history", authRequired, exerciseHandler.GetHistory)
	exercises.Get("/:id/alternatives", authRequired, exerciseHandler.GetAlternatives)

	programs := api.Group("/programs", authRequired)
	programs.Get("", programHandler.ListPrograms)
	programs.Post("", programHandler.CreateProgram)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Put("/:id", programHandler.UpdateProgram)
	programs.Delete("/:id", programHandler.DeleteProgram)
	programs.Post("/:id/sessions", programHandler.AddSession)
	programs.Put("/:id/sessions/:sessionId", programHandler.UpdateSession)
	programs.Delete("/:id/sessions/:sessionId", programHandler.DeleteSession)
	programs.Post("/:id/sessions/:sessionId/exercises", programHandler.AddSessionExercise)
	programs.Put("/:id/sessions/:sessionId/exercises/:entryId", programHandler.UpdateSessionExercise)
	programs.Delete("/:id/sessions/:sessionId/exercises/:entryId", programHandler.RemoveSessionExercise)

	for _, prefix := range []string{"/workout-logs", "/workouts"} {
		logs := api.Group(prefix, authRequired)
		logs.Get("", workoutLogHandler.ListLogs)
		logs.Post("", workoutLogHandler.CreateLog)
		logs.Get("/:id", workoutLogHandler.GetLog)
		logs.Put("/:id", workoutLogHandler.UpdateLog)
		logs.Delete("/:id", workoutLogHandler.DeleteLog)
	}

	store := api.Group("/store")
	store.Get("/programs", storeHandler.ListPrograms)
	store.Get("/programs/:id", storeHandler.GetProgram)
	store.Post("/programs/:id/purchase", authRequired, storeHandler.Purchase)
	store.Get("/purchases", authRequired, storeHandler.ListPurchases)

	api.Use("/sync/ws", syncHandler.WebSocketAuth)
	api.Get("/sync/ws", websocket.New(syncHandler.HandleWebSocket))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Route not found"})
	})

	return nil
}
