package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/kawanbicara/server/adapters/llm"
	"github.com/kawanbicara/server/adapters/tts"
	"github.com/kawanbicara/server/internal/api"
	"github.com/kawanbicara/server/internal/cleanup"
	"github.com/kawanbicara/server/internal/config"
	"github.com/kawanbicara/server/internal/lipsync"
	"github.com/kawanbicara/server/internal/runner"
	"github.com/kawanbicara/server/usecase"
)

func main() {
	// Best effort; the environment may be set directly
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
		logger.Fatal("Failed to create audio directory",
			zap.String("dir", cfg.AudioDir),
			zap.Error(err))
	}

	// Initialize adapters
	replyGenerator, err := llm.NewGeminiReplyGenerator(context.Background(), llm.GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create reply generator", zap.Error(err))
	}

	synthesizer, err := tts.NewElevenLabsSynthesizer(tts.ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsAPIKey,
		VoiceID: cfg.VoiceID,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create speech synthesizer", zap.Error(err))
	}

	processRunner := runner.New(logger)
	extractor := lipsync.NewExtractor(processRunner, cfg.FFmpegBin, cfg.RhubarbBin, cfg.MaxExtractions, logger)
	scheduler := cleanup.NewScheduler(logger)

	// Initialize the pipeline orchestrator
	pipeline := usecase.NewPipelineService(cfg, replyGenerator, synthesizer, extractor, scheduler, logger)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Gzip())

	// Initialize API routes
	api.InitRoutes(e, pipeline, cfg, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.Bool("production", cfg.Production))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	scheduler.Stop()

	logger.Info("Server exited")
}
