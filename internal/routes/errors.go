package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/FlashFitBack/internal/config"
	"github.com/sirupsen/logrus"
)

// NewErrorHandler renders errors that handlers did not map themselves.
// Details are only exposed outside production.
func NewErrorHandler(cfg *config.Config, log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"success": false, "message": fiberErr.Message})
		}

		message := "Something went wrong!"
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) || pgconn.Timeout(err) {
			message = "Database error"
		}

		log.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"request_id": c.Locals("requestid"),
		}).WithError(err).Error(message)

		body := fiber.Map{"success": false, "message": message}
		if !cfg.IsProduction() {
			body["error"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
