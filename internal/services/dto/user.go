package dto

import (
	"strings"
	"time"

	"store_rating_backend/internal/models"
)

// =======================
// User DTOs
// =======================

// ChangePasswordRequest - смена собственного пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,password-policy"`
}

func (r ChangePasswordRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"currentPassword":             "Current password is required",
		"newPassword":                 "New password must be between 8 and 16 characters",
		"newPassword.password-policy": "New password must contain at least one uppercase letter and one special character",
	}
}

// UserResponse - пользователь без хеша пароля
type UserResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Address   *string         `json:"address"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// =======================
// Admin DTOs
// =======================

// AdminUserFilter - фильтр списка пользователей
type AdminUserFilter struct {
	Search string `form:"search"`
	Role   string `form:"role" validate:"omitempty,is-user-role"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (f *AdminUserFilter) Normalize() {
	f.Search = strings.TrimSpace(f.Search)
}

func (f AdminUserFilter) ValidationMessages() map[string]string {
	return map[string]string{
		"role":  "Role must be admin, user, or owner",
		"page":  "Page must be a positive integer",
		"limit": "Limit must be between 1 and 100",
	}
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// MetricsResponse - счетчики для панели администратора
type MetricsResponse struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}
