package handler

import (
	"errors"

	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/pkg/response"
	"hiresight/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const resumeFormField = "resume"

type ResumeHandler struct {
	uc usecase.ResumeUsecase
}

func NewResumeHandler(uc usecase.ResumeUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) HandleUpload(c fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil)
	}

	fh, err := c.FormFile(resumeFormField)
	if err != nil || fh == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No file uploaded", err)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No file uploaded", err)
	}
	defer f.Close()

	url, err := h.uc.Upload(c.Context(), p, &usecase.ResumeFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		return mapResumeUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.ResumeUploadResponse{Success: true, Resume: url})
}

func mapResumeUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrResumeFileMissing):
		return middleware.NewAppError(fiber.StatusBadRequest, "No file uploaded", err)
	case errors.Is(err, usecase.ErrResumeFileTooLarge):
		return middleware.NewAppError(fiber.StatusBadRequest, "File too large", err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
