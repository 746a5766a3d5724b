package handlers

import (
	"context"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

// UserHandler is the admin surface for assigning roles and categories.
// Everything else about a user comes from the OAuth provider.
type UserHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewUserHandler(db *gorm.DB, authHandler *auth.AuthHandler) *UserHandler {
	return &UserHandler{db: db, authHandler: authHandler}
}

func (h *UserHandler) requireManager(ctx context.Context, cookie string) error {
	actor, err := h.authHandler.Actor(ctx, cookie)
	if err != nil {
		return err
	}
	if !actor.Role.CanManageUsers() {
		return huma.Error403Forbidden("Access denied: admin role required")
	}
	return nil
}

type UserView struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Category string      `json:"category"`
}

type ListUsersRequest struct {
	auth.AuthInput
}

type ListUsersResponse struct {
	Body []UserView
}

func (h *UserHandler) HandleListUsers(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	if err := h.requireManager(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var users []models.User
	if err := h.db.Order("username asc").Find(&users).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list users")
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
			Category: u.Category,
		})
	}
	return &ListUsersResponse{Body: views}, nil
}

type UpdateUserRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Role     models.Role `json:"role,omitempty" enum:"user,approver,admin,superadmin" doc:"New role; omit to keep"`
		Category string      `json:"category,omitempty" doc:"New category; omit to keep"`
	}
}

type UpdateUserResponse struct {
	Body UserView
}

func (h *UserHandler) HandleUpdateUser(ctx context.Context, input *UpdateUserRequest) (*UpdateUserResponse, error) {
	if err := h.requireManager(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	if input.Body.Role != "" {
		user.Role = input.Body.Role
	}
	if input.Body.Category != "" {
		user.Category = input.Body.Category
	}
	if err := h.db.Save(&user).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update user")
	}

	return &UpdateUserResponse{Body: UserView{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Category: user.Category,
	}}, nil
}
