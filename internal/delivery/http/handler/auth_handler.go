package handler

import (
	"errors"
	"time"

	"hiresight/internal/delivery/http/dto"
	"hiresight/internal/delivery/http/middleware"
	"hiresight/internal/pkg/response"
	"hiresight/internal/usecase"
	ucauth "hiresight/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	uc     usecase.AuthUsecase
	cookie CookieConfig
}

func NewAuthHandler(uc usecase.AuthUsecase, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{uc: uc, cookie: cookie}
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	_, err := h.uc.Register(c.Context(), ucauth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	return response.Message(c, fiber.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid Credentials", err)
	}

	res, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return mapAuthUsecaseError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})

	return response.Success(c, fiber.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Role:    string(res.User.Role),
	})
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return response.Message(c, fiber.StatusOK, "Logged out")
}

// Me never fails: any problem with the caller reads as logged out.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return response.Success(c, fiber.StatusOK, dto.LoggedOutResponse{LoggedIn: false})
	}

	usr, err := h.uc.Me(c.Context(), p)
	if err != nil {
		return response.Success(c, fiber.StatusOK, dto.LoggedOutResponse{LoggedIn: false})
	}
	return response.Success(c, fiber.StatusOK, dto.NewMeResponse(usr))
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "User with this email already exists", err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid Credentials", err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Please provide all required fields", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
