package handler

import (
	"context"
	"net/http"

	"notehub-server/internal/domain"
	"notehub-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
}

type AuthHandler struct {
	authService AuthService
	validator   *validator.Validate
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   newValidator(),
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	authResp, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, response.Fields{
		"message":    "Signup successful",
		"user":       authResp.User,
		"token":      authResp.Token,
		"expires_in": authResp.ExpiresIn,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeAndValidate(r, h.validator, &req); err != nil {
		writeError(w, r, err)
		return
	}

	authResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{
		"message":    "Login successful",
		"user":       authResp.User,
		"token":      authResp.Token,
		"expires_in": authResp.ExpiresIn,
	})
}
