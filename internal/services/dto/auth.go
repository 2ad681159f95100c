package dto

import (
	"strings"

	"store_rating_backend/internal/models"
)

// SignupRequest - запрос регистрации. Тот же набор правил
// используется администратором при создании пользователя.
type SignupRequest struct {
	Name     string  `json:"name" validate:"required,min=20,max=60"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=16,password-policy"`
	Address  *string `json:"address" validate:"omitempty,max=400"`
	Role     string  `json:"role" validate:"omitempty,is-user-role"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Address = trimOptional(r.Address)
}

func (r SignupRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":                     "Name must be between 20 and 60 characters",
		"email":                    "Valid email is required",
		"password":                 "Password must be between 8 and 16 characters",
		"password.password-policy": "Password must contain at least one uppercase letter and one special character",
		"address":                  "Address must not exceed 400 characters",
		"role":                     "Role must be admin, user, or owner",
	}
}

// RoleOrDefault - роль из запроса или "user"
func (r *SignupRequest) RoleOrDefault() models.UserRole {
	if r.Role == "" {
		return models.UserRoleUser
	}
	return models.UserRole(r.Role)
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

func (r LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":    "Valid email is required",
		"password": "Password is required",
	}
}

// UserSummary - пользователь в ответе на вход/регистрацию
type UserSummary struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// AuthResponse - токен и краткие данные пользователя
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// NormalizeEmail обрезает пробелы и приводит email к нижнему регистру
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
