package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	"github.com/cardbinder/cardbinder/internal/config"
	"github.com/cardbinder/cardbinder/internal/database"
	"github.com/cardbinder/cardbinder/internal/handlers"
	"github.com/cardbinder/cardbinder/internal/identity"
	"github.com/cardbinder/cardbinder/internal/middleware"
	"github.com/cardbinder/cardbinder/internal/ratelimit"
	"github.com/cardbinder/cardbinder/internal/types"
	"github.com/cardbinder/cardbinder/internal/utils"

	_ "github.com/cardbinder/cardbinder/docs/api" // Swagger docs
)

// @title CardBinder API
// @version 1.0.0
// @description Pokémon trading-card collection service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/cardbinder/cardbinder

// @license.name MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load .env when present; the environment wins otherwise
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Identity provider client
	provider, err := identity.NewAuthorizerProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create identity provider: %v", err)
	}

	limiter := ratelimit.NewMemoryLimiter()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("cardbinder")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.Version())

	// Create handlers
	catalogHandler := &handlers.CatalogHandler{DB: db, CacheTTL: cfg.CatalogCacheTTL}
	authHandler := &handlers.AuthHandler{Provider: provider, Limiter: limiter, Cfg: cfg}
	collectionHandler := &handlers.CollectionHandler{DB: db}
	profileHandler := &handlers.ProfileHandler{DB: db}
	listsHandler := &handlers.ListsHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	// Public catalog routes
	api.Get("/cards", catalogHandler.SearchCards)
	api.Get("/cards/:cardId", catalogHandler.GetCard)
	api.Get("/sets", catalogHandler.ListSets)
	api.Get("/sets/:setId", catalogHandler.GetSet)
	api.Get("/lookups", catalogHandler.GetLookups)
	api.Get("/health", healthHandler.GetHealth)

	// Auth routes, each behind its IP-keyed window
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimitByIP(limiter, "register", cfg.RegisterLimit), authHandler.Register)
	auth.Post("/login", middleware.RateLimitByIP(limiter, "login", cfg.LoginLimit), authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/reset-password", middleware.RateLimitByIP(limiter, "reset", cfg.ResetLimit), authHandler.RequestPasswordReset)
	auth.Post("/update-password", authHandler.UpdatePassword)

	// Authenticated routes
	authed := middleware.AuthUser(provider)
	api.Get("/profile", authed, profileHandler.GetProfile)
	api.Patch("/profile", authed, profileHandler.UpdateProfile)

	api.Get("/collection", authed, collectionHandler.ListCollection)
	api.Post("/collection", authed, collectionHandler.CreateEntry)
	api.Patch("/collection/:entryId", authed, collectionHandler.UpdateEntry)
	api.Delete("/collection/:entryId", authed, collectionHandler.DeleteEntry)

	api.Get("/lists", authed, listsHandler.GetLists)
	api.Post("/lists", authed, listsHandler.CreateList)
	api.Get("/lists/:listId", authed, listsHandler.GetList)
	api.Patch("/lists/:listId", authed, listsHandler.RenameList)
	api.Delete("/lists/:listId", authed, listsHandler.DeleteList)
	api.Post("/lists/:listId/entries", authed, listsHandler.AddEntries)
	api.Delete("/lists/:listId/entries/:entryId", authed, listsHandler.RemoveEntry)

	// Admin routes
	api.Get("/import-jobs", authed, middleware.AdminOnly(db), catalogHandler.ListImportJobs)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.AppErrorResponse(c, types.NewAppError(types.CodeNotFound, "Resource not found", fiber.StatusNotFound))
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Periodic cleanup of expired rate-limit windows
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Prune(cfg.LoginLimit.Window)
		}
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors that escape the handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*types.AppError); ok {
		return utils.AppErrorResponse(c, appErr)
	}

	if e, ok := err.(*fiber.Error); ok {
		code := types.CodeInternal
		if e.Code == fiber.StatusNotFound {
			code = types.CodeNotFound
		}
		return utils.AppErrorResponse(c, types.NewAppError(code, e.Message, e.Code))
	}

	log.Printf("unhandled error: %v", err)
	return utils.InternalErrorResponse(c)
}
