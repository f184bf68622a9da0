package handler

import (
	"errors"
	"strconv"
	"strings"

	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/pkg/response"
	"hiresight/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) HandleCreateJob(c fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	j, err := h.uc.Create(c.Context(), p, req.Input())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, dto.NewJobResponse(j))
}

// HandleListJobs serves the public listing, or the caller's own jobs when
// mine=true. The route runs the optional auth middleware, so a mine=true
// request without a valid cookie is rejected here.
func (h *JobsHandler) HandleListJobs(c fiber.Ctx) error {
	params := usecase.JobListParams{
		Page:  parseQueryIntLenient(c, "page", usecase.DefaultPage),
		Limit: parseQueryIntLenient(c, "limit", usecase.DefaultPageSize),
	}

	if strings.EqualFold(strings.TrimSpace(c.Query("mine")), "true") {
		if strings.TrimSpace(c.Cookies(middleware.TokenCookieName)) == "" {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
		}
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid token", nil)
		}
		params.Owner = &p
	}

	page, err := h.uc.List(c.Context(), params)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewJobListResponse(page))
}

func (h *JobsHandler) HandleGetJob(c fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job ID", err)
	}

	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewJobResponse(j))
}

// parseQueryIntLenient falls back to defaultVal for anything that is not a
// positive integer.
func parseQueryIntLenient(c fiber.Ctx, key string, defaultVal int) int {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", err)
	case errors.Is(err, usecase.ErrJobFieldsMissing):
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing required fields", err)
	case errors.Is(err, usecase.ErrInvalidJobType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job type", err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
