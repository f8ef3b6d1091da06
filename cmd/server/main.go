// @title         authcore API
// @version       1.0
// @description   Credential-based authentication service: registration, login, logout and profile retrieval backed by server-side sessions.
// @BasePath      /
// @schemes       http
// @host          localhost:8080
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	_ "github.com/artemv/authcore/docs"
	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	// internal imports
	"github.com/artemv/authcore/api/http"
	"github.com/artemv/authcore/api/http/handlers"
	"github.com/artemv/authcore/pkg/auth"
	"github.com/artemv/authcore/pkg/config"
	"github.com/artemv/authcore/pkg/health"
	"github.com/artemv/authcore/pkg/health/checkers"
	memrepo "github.com/artemv/authcore/pkg/repository/memory"
	pgrepo "github.com/artemv/authcore/pkg/repository/postgres"
	"github.com/artemv/authcore/pkg/session"
	"github.com/artemv/authcore/pkg/storage/postgres"
	redisstorage "github.com/artemv/authcore/pkg/storage/redis"
)

func main() {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Load configuration from env/.env
	cfg := config.Load()
	ctx := context.Background()

	// Credential store: PostgreSQL when configured, in-memory otherwise.
	var userRepo auth.UserRepository
	var healthCheckers []health.Checker
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pool.Close()

		repo, err := pgrepo.NewUserRepository(pool)
		if err != nil {
			log.Fatalf("init user repo: %v", err)
		}
		userRepo = repo
		healthCheckers = append(healthCheckers, checkers.NewPostgresChecker(pool))
	} else {
		log.Println("DATABASE_URL not set, using in-memory user store (data is lost on restart)")
		userRepo = memrepo.NewUserRepository()
	}

	// Sessions: Redis for multi-instance deployments, in-memory otherwise.
	sessionTTL := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	var sessions session.Manager
	if cfg.RedisAddr != "" {
		client, err := redisstorage.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer client.Close()

		sessions = session.NewRedisManager(client, sessionTTL)
		healthCheckers = append(healthCheckers, checkers.NewRedisChecker(client))
	} else {
		sessions = session.NewMemoryManager(sessionTTL)
	}

	// Wire dependencies (Clean Architecture)
	authUC := auth.NewAuthService(userRepo, auth.NewBcryptHasher())
	authHandler := handlers.NewAuthHandler(authUC, sessions, cfg.SessionCookieName, cfg.SessionSecure, sessionTTL)

	// Health service: compose checkers
	readiness := health.NewService(healthCheckers...)
	healthHandler := handlers.NewHealthHandler(readiness)

	// Session guard for protected routes
	requireSession := session.NewRequireSession(sessions, cfg.SessionCookieName)

	// Register routes
	http.Register(app, authHandler, healthHandler, requireSession)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Static frontend, if present
	if _, err := os.Stat(cfg.StaticDir); err == nil {
		app.Static("/", cfg.StaticDir)
	}

	// Start server
	port := cfg.Port
	log.Printf("HTTP server listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

// errorHandler converts uncaught faults to a generic 500 JSON body so
// internal details never reach the client.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	log.Printf("unhandled error: %v", err)
	return c.Status(code).JSON(fiber.Map{"message": "something went wrong"})
}
