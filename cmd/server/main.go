package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/launchbase/readiness-api/internal/agent"
	"github.com/launchbase/readiness-api/internal/config"
	"github.com/launchbase/readiness-api/internal/domain/fiber/handler"
	"github.com/launchbase/readiness-api/internal/logger"
	"github.com/launchbase/readiness-api/internal/middleware"
	"github.com/launchbase/readiness-api/internal/model"
	"github.com/launchbase/readiness-api/internal/queue"
	"github.com/launchbase/readiness-api/internal/repository"
	"github.com/launchbase/readiness-api/internal/service"
	"github.com/launchbase/readiness-api/internal/usecase"
	"github.com/launchbase/readiness-api/internal/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	appLog, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: int(appConfig.MaxUploadSize) + 1024*1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	ventureRepo := repository.NewVentureRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	chunkRepo := repository.NewChunkRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	storage := service.NewStorageService()
	gemini, err := service.NewGeminiService(ctx, appLog)
	if err != nil {
		appLog.Fatal("Gemini client init failed", "error", err)
	}

	assessmentQueue, err := queue.New(appLog)
	if err != nil {
		appLog.Fatal("Queue init failed", "error", err)
	}
	defer assessmentQueue.Close()

	rubrics := agent.NewRubricCache(10*time.Minute, agent.DefaultRubrics)
	scorer := agent.NewTemplatedScorer(rubrics)

	ingestion := usecase.NewIngestionUsecase(fileRepo, chunkRepo, submissionRepo, storage, gemini, appLog)
	assessments := usecase.NewAssessmentUsecase(ventureRepo, submissionRepo, chunkRepo, assessmentRepo, scorer, appLog)

	worker.New(assessmentQueue, assessments, appLog).Start(ctx)

	handler.NewVentureHandler(ventureRepo, chunkRepo, assessments, gemini, assessmentQueue).RegisterRoutes(app)
	handler.NewSubmissionHandler(ventureRepo, submissionRepo, fileRepo, storage, ingestion, appLog).RegisterRoutes(app)

	go func() {
		<-ctx.Done()
		appLog.Info("Shutting down")
		_ = app.Shutdown()
	}()

	appLog.Info("Server running", "port", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		appLog.Fatal("Server stopped", "error", err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`)
	db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`)

	err = db.AutoMigrate(
		&model.Venture{},
		&model.Submission{},
		&model.File{},
		&model.Chunk{},
		&model.Score{},
		&model.Recommendation{},
		&model.AgentRun{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
