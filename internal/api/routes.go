package api

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kawanbicara/server/internal/config"
	"github.com/kawanbicara/server/usecase"
)

// ChatPipeline is the part of the pipeline service the HTTP layer uses.
type ChatPipeline interface {
	Process(ctx context.Context, message string) (*usecase.Result, error)
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, pipeline ChatPipeline, cfg *config.Config, logger *zap.Logger) {
	e.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, StatusResponse{
			Status:               "ok",
			GeminiKeyPresent:     cfg.GeminiAPIKey != "",
			ElevenLabsKeyPresent: cfg.ElevenLabsAPIKey != "",
			RhubarbBin:           cfg.RhubarbBin,
		})
	})

	e.POST("/chat", func(c echo.Context) error {
		return chat(c, pipeline, cfg, logger)
	})

	e.GET("/audio/:id", func(c echo.Context) error {
		return audio(c, cfg)
	})
}

func chat(c echo.Context, pipeline ChatPipeline, cfg *config.Config, logger *zap.Logger) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind chat request", zap.Error(err))

		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request format",
		})
	}

	result, err := pipeline.Process(c.Request().Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoMessage):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "No message provided",
			})
		case errors.Is(err, usecase.ErrMissingCredentials):
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Missing API credentials",
			})
		}

		logger.Error("Pipeline failed", zap.Error(err))

		response := ErrorResponse{Error: err.Error()}
		if !cfg.Production {
			response.Stack = string(debug.Stack())
		}

		return c.JSON(http.StatusInternalServerError, response)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Messages: []usecase.ReplyMessage{result.Message},
	})
}

// audio streams a request's synthesized audio file while it is still on
// disk. The identifier is rejected if it would escape the audio
// directory.
func audio(c echo.Context, cfg *config.Config) error {
	id := c.Param("id")
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid audio identifier",
		})
	}

	return c.File(filepath.Join(cfg.AudioDir, "message_"+id+".mp3"))
}
