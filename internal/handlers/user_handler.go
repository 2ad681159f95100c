package handlers

import (
	"net/http"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authn *middleware.Authenticator) {
	users := rg.Group("/users")
	users.Use(authn.Required())
	{
		users.PUT("/password", middleware.Authorize(auth.ActionChangeOwnPwd), h.ChangePassword)
	}
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(h.GetDB(c), h.Principal(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
