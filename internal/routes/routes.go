package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/giveloop/giveloop/internal/auth"
	"github.com/giveloop/giveloop/internal/config"
	"github.com/giveloop/giveloop/internal/directory"
	"github.com/giveloop/giveloop/internal/kvstore"
	"github.com/giveloop/giveloop/internal/ledger"
	"github.com/giveloop/giveloop/internal/middleware"
	"github.com/giveloop/giveloop/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Durable storage is mandatory outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil && d.Cache == nil {
			return fmt.Errorf("a durable store is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Persistence port: postgres preferred, then redis, memory for dev.
	var store kvstore.Store
	switch {
	case d.DB != nil:
		store = kvstore.NewPostgres(d.DB)
	case d.Cache != nil:
		store = kvstore.NewRedis(d.Cache)
	default:
		store = kvstore.NewMemory()
	}

	// Services and handlers
	userRepo := directory.NewRepository(store)
	userSvc := directory.NewService(userRepo, d.Cfg.StartingBalance)
	notifier := notification.NewLoggerNotifier(d.Logger)
	ledgerSvc := ledger.NewService(store, userRepo, notifier)

	authSvc := auth.NewService(d.Cfg, userSvc)
	authHandler := auth.NewHandler(userSvc, authSvc)
	userHandler := directory.NewHandler(userSvc)
	transferHandler := ledger.NewHandler(ledgerSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterUserRoutes(api, userHandler)
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, userSvc)
	protected := api.Group("", jwtmw)
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		user, err := userSvc.Get(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		return c.JSON(fiber.Map{
			"user_id":      user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
			"balance":      user.Balance,
			"created_at":   user.CreatedAt,
		})
	})
	RegisterProtectedUserRoutes(protected, userHandler)
	RegisterTransferRoutes(protected, transferHandler)
	protected.Post("/auth/logout", authHandler.Logout)

	return nil
}
