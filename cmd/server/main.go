package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/domain/fiber/handler"
	"github.com/fadilmartias/pitch-grader/internal/middleware"
	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/fadilmartias/pitch-grader/internal/repository"
	"github.com/fadilmartias/pitch-grader/internal/service"
	"github.com/fadilmartias/pitch-grader/internal/usecase"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// leaves room for multipart overhead above the extractor's own limit
const bodyLimit = util.MaxSizeBytes + 5*1024*1024

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: bodyLimit,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			} else {
				log.Printf("[error] %v", err)
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Accept",
	}))
	// Use middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
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

	runs := repository.NewRunStore(repository.DefaultRunCapacity)
	uc := usecase.NewGradeUsecase(util.NewExtractor(), newGrader, runs, sinks()...)
	handler := handler.NewGradeHandler(uc)

	handler.RegisterRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})

	log.Printf("[startup] %s listening on %s", appConfig.Name, appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func newGrader(ctx context.Context) (service.GraderInterface, error) {
	grader, err := service.NewGraderFromConfig(ctx)
	if err != nil {
		return nil, err
	}
	return grader, nil
}

func sinks() []usecase.Sink {
	var out []usecase.Sink

	backendConfig := config.LoadBackendConfig()
	if backendConfig.BaseURL != "" {
		log.Printf("[startup] forwarding results to %s", backendConfig.BaseURL)
		out = append(out, service.NewBackendSinkService(backendConfig))
	}

	if config.LoadDBConfig().Enabled() {
		out = append(out, repository.NewDeckRepository(ConnectDB(), backendConfig.UserID))
	}
	return out
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
		dbConfig.TimeZone,
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
		pgDB.SetMaxOpenConns(100)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.Deck{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
