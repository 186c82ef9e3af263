package handler

import (
	"context"
	"net/http"

	"notehub-server/internal/domain"
	"notehub-server/internal/middleware"
	"notehub-server/pkg/response"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, response.Fields{"user": user})
}
