package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/skillpath/career/analysis/analysisapi"
	"github.com/Abraxas-365/skillpath/career/analysis/analysissrv"
	"github.com/Abraxas-365/skillpath/career/roadmap/roadmapapi"
	"github.com/Abraxas-365/skillpath/career/user/userapi"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// bodyLimit leaves room for multipart framing around a maximum-size resume
const bodyLimit = analysissrv.MaxFileSize + 1<<20

func main() {
	// 1. Load Configuration
	cfg, err := LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logx.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logx.SetFormat(cfg.LogFormat)
	logx.SetLevel(logx.ParseLevel(cfg.LogLevel))
	defer logx.Sync()
	logx.Info("Starting SkillPath API Server...")

	// 3. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 4. Start Background Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	container.AnalysisWorker.Start(workerCtx)

	// 5. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "SkillPath API",
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          globalErrorHandler,
	})

	// 6. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 7. Health Check and Metrics
	app.Get("/health", func(c *fiber.Ctx) error {
		queued, _ := container.JobQueue.GetQueueSize(c.Context())
		return c.JSON(fiber.Map{
			"status":          "ok",
			"db":              container.DB.Ping() == nil,
			"redis":           container.JobQueue.Ping(c.Context()) == nil,
			"queued_analyses": queued,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 8. Register Routes

	// /api/auth/*
	userapi.RegisterRoutes(app, container.UserHandlers, container.AuthMiddleware)

	// /api/analysis/*
	analysisapi.RegisterRoutes(app, container.AnalysisHandlers, container.AuthMiddleware)

	// /api/roadmap/*
	roadmapapi.RegisterRoutes(app, container.RoadmapHandlers, container.AuthMiddleware)

	// 9. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	container.AnalysisWorker.Wait()

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// If it's a Fiber error (e.g., 404 handler not found)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	// If it's our custom errx.Error
	if e, ok := errx.As(err); ok {
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			logx.Errorf("Request %s %s failed: %v", c.Method(), c.Path(), err)
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
