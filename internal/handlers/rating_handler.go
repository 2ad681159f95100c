package handlers

import (
	"net/http"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/middleware"
	"store_rating_backend/internal/services"
	"store_rating_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   base,
		ratingService: ratingService,
	}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup, authn *middleware.Authenticator) {
	ratings := rg.Group("/ratings")
	ratings.Use(authn.Required())
	{
		ratings.POST("", middleware.Authorize(auth.ActionCreateRating), h.CreateRating)
		ratings.PUT("/:id", middleware.Authorize(auth.ActionUpdateRating), h.UpdateRating)
		ratings.DELETE("/:id", middleware.Authorize(auth.ActionDeleteRating), h.DeleteRating)
	}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	var req dto.CreateRatingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rating, err := h.ratingService.CreateRating(h.GetDB(c), h.Principal(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Rating submitted successfully",
		"rating":  rating,
	})
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	ratingID, err := ParseParamID(c, "id", "Rating ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateRatingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	rating, err := h.ratingService.UpdateRating(h.GetDB(c), h.Principal(c), ratingID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating updated successfully",
		"rating":  rating,
	})
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	ratingID, err := ParseParamID(c, "id", "Rating ID")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.ratingService.DeleteRating(h.GetDB(c), h.Principal(c), ratingID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}
