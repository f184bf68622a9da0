package dto

import (
	"hiresight/internal/domain/user"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type MeResponse struct {
	LoggedIn bool    `json:"loggedIn"`
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	Resume   *string `json:"resume"`
}

type LoggedOutResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

func NewMeResponse(u user.User) MeResponse {
	var resume *string
	if u.HasResume() {
		r := *u.Resume
		resume = &r
	}
	return MeResponse{
		LoggedIn: true,
		UserID:   u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		Resume:   resume,
	}
}
