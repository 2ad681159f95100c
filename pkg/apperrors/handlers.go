package apperrors

import (
	"store_rating_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

var defaultHandler = &GinErrorHandler{}

// SetDebug включает вывод текста внутренних ошибок (только для development)
func SetDebug(debug bool) {
	defaultHandler = &GinErrorHandler{Debug: debug}
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "Server error", err, "path", c.Request.URL.Path)
		// Наружу уходит только общий текст
		resp := InternalError(nil)
		if h.Debug && appErr.Err != nil {
			resp = resp.WithDetails(appErr.Err.Error())
		}
		appErr = resp
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
