package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"interview-orchestrator/internal/config"
	"interview-orchestrator/internal/handlers"
	"interview-orchestrator/internal/logger"
	"interview-orchestrator/internal/pipeline"
	"interview-orchestrator/internal/services"
	"interview-orchestrator/internal/storage"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()
	log.Info("config loaded", zap.String("env", cfg.Server.Env))

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("failed to initialize durable store", zap.Error(err))
	}
	log.Info("durable store ready", zap.String("backend", cfg.Store.Backend))

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}
	jdParser := services.NewJDParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	stateMachine := pipeline.NewStateMachine(store, log)
	interviewService := services.NewInterviewService(
		stateMachine,
		geminiService,
		cfg.Contract.JDMaxChars,
		log,
	)

	pipelineHandler := handlers.NewPipelineHandler(
		stateMachine,
		storageService,
		jdParser,
		cfg.Storage.MaxFileSize,
	)
	interviewHandler := handlers.NewInterviewHandler(
		interviewService,
		geminiService,
		cfg.Storage.MaxFileSize,
	)

	app := fiber.New(fiber.Config{
		AppName:      "Interview Pipeline Orchestrator",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Post("/pipeline/start", pipelineHandler.HandleStart)
	app.Get("/pipeline/status/:id", pipelineHandler.HandleStatus)
	app.Post("/pipeline/:id/question", interviewHandler.HandleNextQuestion)
	app.Post("/pipeline/:id/answer", interviewHandler.HandleAnswer)
	app.Post("/pipeline/:id/tone", interviewHandler.HandleTone)
	app.Get("/pipeline/:id/analysis", interviewHandler.HandleAnalysis)
	app.Post("/pipeline/:id/phase", pipelineHandler.HandleAdvancePhase)
	app.Post("/pipeline/:id/complete", pipelineHandler.HandleComplete)
	app.Post("/transcribe", interviewHandler.HandleTranscribe)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return storage.NewRedisStore(storage.NewRedisClient(cfg.Redis)), nil
	case "memory":
		return storage.NewMemoryStore(), nil
	case "postgres":
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
