package validator

import (
	"strings"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные теги.
// Ошибка регистрации - ошибка сборки приложения, поэтому Fatal.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("password-policy", validatePasswordPolicy)
	mustRegister("is-user-role", validateUserRole)
	mustRegister("store-sort", validateStoreSort)
	mustRegister("sort-order", validateSortOrder)
}

// --- Функции валидации ---
// Пустые значения пропускаются, для этого есть 'required'.

func validatePasswordPolicy(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return auth.ValidatePassword(value) == nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).IsValid()
}

func validateStoreSort(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "name", "created_at", "rating":
		return true
	default:
		return false
	}
}

func validateSortOrder(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "", "asc", "desc":
		return true
	default:
		return false
	}
}
