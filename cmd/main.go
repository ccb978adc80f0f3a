package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "cinematch-backend/docs"
	"cinematch-backend/internal/config"
	"cinematch-backend/internal/database"
	"cinematch-backend/internal/handlers"
	"cinematch-backend/internal/repository"
	"cinematch-backend/internal/routes"
	"cinematch-backend/internal/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title Cinematch Relay API
// @version 1.0
// @description Relay between the Cinematch client, Gemini movie suggestions and TMDb metadata

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8010
// @BasePath /
// @schemes http https

func main() {
	loadEnvFile()

	cfg := config.Load()

	log := setupLogger()

	if err := cfg.Validate(); err != nil {
		log.Warnf("Configuration validation warning: %v", err)
	}

	logRepo, db := setupSuggestionLog(cfg, log)
	if db != nil {
		defer func() {
			if err := db.Close(); err != nil {
				log.Errorf("Error closing database connection: %v", err)
			}
		}()
	}

	// generator and posters stay nil interfaces when their provider is not configured.
	var generator services.CandidateGenerator
	if cfg.Gemini.APIKey != "" {
		generator = services.NewGeminiClient(cfg.Gemini, log)
	}

	var posters services.PosterStore
	if cfg.PosterMirrorEnabled() {
		store, err := services.NewMinIOPosterStore(&cfg.MinIO, log)
		if err != nil {
			log.WithError(err).Warn("Poster mirroring disabled")
		} else {
			posters = store
		}
	}

	tmdbClient := services.NewTMDBClient(cfg.TMDB, log)
	relayService := services.NewRelayService(generator, tmdbClient, posters, logRepo, cfg.TMDB.ImageBaseURL, log)
	relayHandler := handlers.NewRelayHandler(relayService, log)

	app := fiber.New(fiber.Config{
		AppName:               "Cinematch Relay",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: false,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          customErrorHandler(log),
	})

	setupMiddleware(app, cfg)

	app.Get("/health", healthCheckHandler(db, relayService))

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	routes.Setup(app, cfg.Server.BasePath, relayHandler)

	go gracefulShutdown(app, log)

	log.WithFields(logrus.Fields{
		"port":          cfg.Server.Port,
		"suggestions":   relayService.SuggestionsConfigured(),
		"poster_mirror": posters != nil,
		"audit_log":     db != nil,
	}).Info("Cinematch relay starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

// setupSuggestionLog returns a database-backed repository when DB_HOST is set.
// A database that cannot be reached only disables the audit log.
func setupSuggestionLog(cfg *config.Config, log *logrus.Logger) (repository.SuggestionLogRepository, *database.Database) {
	if !cfg.DatabaseEnabled() {
		log.Info("DB_HOST not set, suggestion audit log disabled")
		return repository.NopSuggestionLogRepository{}, nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database, suggestion audit log disabled")
		return repository.NopSuggestionLogRepository{}, nil
	}

	return repository.NewSuggestionLogRepository(db), db
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: false,
		MaxAge:           86400,
	}))
}

func healthCheckHandler(db *database.Database, relay services.RelayService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "disabled"
		if db != nil {
			dbStatus = "healthy"
			if err := db.HealthCheck(); err != nil {
				dbStatus = "unhealthy"
			}
		}

		geminiStatus := "configured"
		if !relay.SuggestionsConfigured() {
			geminiStatus = "missing_api_key"
		}

		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "cinematch-relay",
			"version":   "1.0.0",
			"database":  dbStatus,
			"gemini":    geminiStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).Error("Request error")

		status := "error"
		if code >= 500 {
			status = "fail"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":  status,
			"code":    code,
			"message": err.Error(),
		})
	}
}

func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}

func loadEnvFile() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stdout)

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	execDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not get working directory: %v", err)
		return
	}

	envFile := filepath.Join(execDir, "envs", ".env."+env)
	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("Could not load environment file %s: %v", envFile, err)

		defaultEnvFile := filepath.Join(execDir, "envs", ".env")
		if err := godotenv.Load(defaultEnvFile); err != nil {
			log.Warnf("Could not load default environment file: %v", err)
		} else {
			log.Infof("Environment loaded from default file %s", defaultEnvFile)
		}
	} else {
		log.Infof("Environment loaded from file %s", envFile)
	}
}
