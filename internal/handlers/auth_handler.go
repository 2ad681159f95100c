package handlers

import (
	"net/http"

	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации.
// Ограничитель попыток вешается на группу снаружи.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	logger.CtxInfo(c.Request.Context(), "User signed up", "user_id", resp.User.ID, "role", resp.User.Role)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}
