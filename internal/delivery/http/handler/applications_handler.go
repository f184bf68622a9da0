package handler

import (
	"errors"

	"hiresight/internal/authz"
	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/pkg/response"
	"hiresight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationsHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationsHandler(uc usecase.ApplicationUsecase) *ApplicationsHandler {
	return &ApplicationsHandler{uc: uc}
}

func (h *ApplicationsHandler) HandleApply(c fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var req dto.ApplyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	a, err := h.uc.Apply(c.Context(), p, req.JobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, dto.NewApplicationResponse(a))
}

// HandleList never fails on a bad or missing cookie; it answers with an
// empty list instead.
func (h *ApplicationsHandler) HandleList(c fiber.Ctx) error {
	var principal *authz.Principal
	if p, ok := middleware.PrincipalFrom(c); ok {
		principal = &p
	}

	items, err := h.uc.List(c.Context(), c.Query("email"), principal)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.NewApplicationListResponse(items))
}

func (h *ApplicationsHandler) HandleUpdateStatus(c fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.uc.UpdateStatus(c.Context(), p, c.Params("id"), req.Status); err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.SuccessResponse{Success: true})
}

func mapApplicationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", err)
	case errors.Is(err, usecase.ErrNotAllowed):
		return middleware.NewAppError(fiber.StatusForbidden, "Not allowed", err)
	case errors.Is(err, usecase.ErrJobIDRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Job ID required", err)
	case errors.Is(err, usecase.ErrResumeRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please upload resume before applying", err)
	case errors.Is(err, usecase.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusBadRequest, "You have already applied", err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", err)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status", err)
	case errors.Is(err, usecase.ErrInvalidApplicationID):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application ID", err)
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
