package service

import (
	"context"
	"errors"
	"testing"

	"notehub-server/internal/domain"
)

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepository()
	ctx := context.Background()
	repo.Create(ctx, &domain.User{ID: "u1", Name: "Uma", Email: "uma@example.com", Password: "hash"})

	service := NewUserService(repo)

	user, err := service.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if user.Password != "" {
		t.Error("GetByID() leaked password hash")
	}
	if repo.users["u1"].Password != "hash" {
		t.Error("GetByID() modified the stored user")
	}

	if _, err := service.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}
}
