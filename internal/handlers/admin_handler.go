package handlers

import (
	"net/http"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, authn *middleware.Authenticator) {
	admin := rg.Group("/admin")
	admin.Use(authn.Required())
	{
		admin.GET("/metrics", middleware.Authorize(auth.ActionViewMetrics), h.GetMetrics)
		admin.GET("/users", middleware.Authorize(auth.ActionListUsers), h.ListUsers)
		admin.POST("/users", middleware.Authorize(auth.ActionCreateUser), h.CreateUser)
		admin.DELETE("/users/:id", middleware.Authorize(auth.ActionDeleteUser), h.DeleteUser)
	}
}

func (h *AdminHandler) GetMetrics(c *gin.Context) {
	resp, err := h.adminService.GetMetrics(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	resp, err := h.adminService.ListUsers(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateUser - та же валидация, что при регистрации, но без выдачи токена
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.adminService.CreateUser(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := ParseParamID(c, "id", "User ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.adminService.DeleteUser(h.GetDB(c), h.Principal(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
