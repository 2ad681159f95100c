package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/validator"
	"store_rating_backend/pkg/apperrors"
	"store_rating_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ============================================================================
// 1. Базовая структура обработчика
// ============================================================================

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// normalizer - DTO, которые чистят ввод (trim, регистр email) до валидации
type normalizer interface {
	Normalize()
}

// ============================================================================
// 2. DB из контекста запроса
// ============================================================================

// GetDB извлекает *gorm.DB из gin.Context (кладет DBMiddleware)
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

// Principal - вызывающий пользователь или nil для анонима
func (h *BaseHandler) Principal(c *gin.Context) *auth.Principal {
	return middleware.PrincipalFrom(c)
}

// ============================================================================
// 3. Привязка и валидация
// ============================================================================

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		// Неверный тип поля отдаем как ошибку валидации этого поля
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			details := map[string]string{typeErr.Field: validator.FieldMessage(obj, typeErr.Field)}
			logger.CtxWarn(ctx, "Validation failed", "errors", details, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(details))
			return false
		}
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body"))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters"))
		return false
	}

	return h.validate(c, obj)
}

func (h *BaseHandler) validate(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if n, ok := obj.(normalizer); ok {
		n.Normalize()
	}

	if err := h.validator.Validate(obj); err != nil {
		var vErr *validator.ValidationError
		if errors.As(err, &vErr) {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

// ============================================================================
// 4. Ошибки сервисов
// ============================================================================

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

// ============================================================================
// 5. Параметры пути
// ============================================================================

// ParseParamID читает положительный целочисленный id из пути.
// label попадает в текст ошибки: "Store ID must be an integer".
func ParseParamID(c *gin.Context, key, label string) (uint, error) {
	valueStr := c.Param(key)
	value, err := strconv.ParseUint(valueStr, 10, 32)
	if err != nil || value == 0 {
		return 0, apperrors.ValidationError(map[string]string{
			key: label + " must be an integer",
		})
	}
	return uint(value), nil
}
