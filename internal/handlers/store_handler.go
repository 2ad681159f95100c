package handlers

import (
	"net/http"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	*BaseHandler
	storeService services.StoreService
}

func NewStoreHandler(base *BaseHandler, storeService services.StoreService) *StoreHandler {
	return &StoreHandler{
		BaseHandler:  base,
		storeService: storeService,
	}
}

// RegisterRoutes - чтение публичное (токен опционален), запись только для admin
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup, authn *middleware.Authenticator) {
	stores := rg.Group("/stores")
	{
		stores.GET("", authn.Optional(), h.ListStores)
		stores.GET("/:id", authn.Optional(), h.GetStore)
		stores.GET("/:id/raters", authn.Required(), middleware.Authorize(auth.ActionViewRaters), h.ListRaters)

		stores.POST("", authn.Required(), middleware.Authorize(auth.ActionCreateStore), h.CreateStore)
		stores.PUT("/:id", authn.Required(), middleware.Authorize(auth.ActionUpdateStore), h.UpdateStore)
		stores.DELETE("/:id", authn.Required(), middleware.Authorize(auth.ActionDeleteStore), h.DeleteStore)
	}
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	var query dto.StoreQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.storeService.ListStores(h.GetDB(c), h.Principal(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, err := ParseParamID(c, "id", "Store ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	store, err := h.storeService.GetStore(h.GetDB(c), h.Principal(c), storeID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) ListRaters(c *gin.Context) {
	storeID, err := ParseParamID(c, "id", "Store ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp, err := h.storeService.ListRaters(h.GetDB(c), h.Principal(c), storeID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req dto.CreateStoreRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	store, err := h.storeService.CreateStore(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

func (h *StoreHandler) UpdateStore(c *gin.Context) {
	storeID, err := ParseParamID(c, "id", "Store ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateStoreRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	store, err := h.storeService.UpdateStore(h.GetDB(c), storeID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated successfully",
		"store":   store,
	})
}

func (h *StoreHandler) DeleteStore(c *gin.Context) {
	storeID, err := ParseParamID(c, "id", "Store ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.storeService.DeleteStore(h.GetDB(c), storeID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Store deleted successfully"})
}
