package dto

import (
	"time"

	"store_rating_backend/internal/models"
)

// CreateRatingRequest - оценка магазина (1..5)
type CreateRatingRequest struct {
	StoreID uint    `json:"store_id" validate:"required"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

func (r *CreateRatingRequest) Normalize() {
	r.Comment = trimOptional(r.Comment)
}

func (r CreateRatingRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"store_id": "Store ID must be an integer",
		"rating":   "Rating must be between 1 and 5",
	}
}

// UpdateRatingRequest - новая оценка и комментарий (комментарий заменяется целиком)
type UpdateRatingRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

func (r *UpdateRatingRequest) Normalize() {
	r.Comment = trimOptional(r.Comment)
}

func (r UpdateRatingRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"rating": "Rating must be between 1 and 5",
	}
}

// RatingResponse - строка оценки
type RatingResponse struct {
	ID        uint      `json:"id"`
	StoreID   uint      `json:"store_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        r.ID,
		StoreID:   r.StoreID,
		UserID:    r.UserID,
		Rating:    r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
