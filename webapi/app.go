package webapi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/mlisik/walletd/pkg/config"
	"github.com/mlisik/walletd/pkg/service/auth"
	"github.com/mlisik/walletd/pkg/service/category"
	"github.com/mlisik/walletd/pkg/service/transaction"
	"github.com/mlisik/walletd/pkg/service/wallet"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Auth        *auth.Service
	Wallet      *wallet.Service
	Transaction *transaction.Service
	Category    *category.Service
	Cfg         *config.AppConfig
	Logger      *slog.Logger
}

// NewApp builds the Fiber application with all routes registered.
func NewApp(deps Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "walletd",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if deps.Cfg.RateLimit.MaxRequests > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.Cfg.RateLimit.MaxRequests,
			Expiration: deps.Cfg.RateLimit.Window,
		}))
	}
	app.Use(requestLogger(deps.Logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(Response{Status: fiber.StatusOK, Message: "ok"})
	})

	AuthRoutes(app, deps)
	UserRoutes(app, deps)
	WalletRoutes(app, deps)
	TransactionRoutes(app, deps)
	CategoryRoutes(app, deps)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	// Untyped errors carry internal detail and are masked; only the
	// messages of deliberate fiber.Errors reach the client.
	detail := "internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
	}
	return ErrorResponseJSON(c, code, "Request failed", detail)
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info(
			"request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
			"request_id", c.Locals(requestid.ConfigDefault.ContextKey),
		)
		return err
	}
}
