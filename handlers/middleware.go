package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rackoyo/faleproxy/pkg/faleproxy"
)

const requestIDKey = "requestid"

// Register mounts the middleware stack, POST /fetch and the static landing
// page on app. An empty publicDir skips the static files.
func Register(app *fiber.App, p *faleproxy.Proxy, logger *zap.Logger, publicDir string) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(RequestLogger(logger))

	app.Post("/fetch", FetchPage(p, logger))

	if publicDir != "" {
		app.Static("/", publicDir)
	}
}

// RequestLogger writes one log line per request.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestID(c)),
		)
		return err
	}
}

// ErrorHandler renders errors that escape the handlers as JSON.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := MsgFetchFailed
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", zap.Error(err), zap.String("request_id", requestID(c)))
		}
		return c.Status(code).JSON(ErrorResponse{Error: msg})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
