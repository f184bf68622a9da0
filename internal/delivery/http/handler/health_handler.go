package handler

import (
	"context"
	"time"

	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
		}
	}
	return response.Success(c, fiber.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Message: "HireSight backend is running...",
	})
}
