package services

import (
	"errors"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/models"
	"store_rating_backend/internal/repositories"
	"store_rating_backend/internal/services/dto"
	"store_rating_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RatingService interface {
	CreateRating(db *gorm.DB, p *auth.Principal, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)
	UpdateRating(db *gorm.DB, p *auth.Principal, ratingID uint, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error)
	DeleteRating(db *gorm.DB, p *auth.Principal, ratingID uint) error
}

type RatingServiceImpl struct {
	ratingRepo repositories.RatingRepository
}

func NewRatingService(ratingRepo repositories.RatingRepository) RatingService {
	return &RatingServiceImpl{ratingRepo: ratingRepo}
}

// CreateRating - одна оценка на пару (пользователь, магазин).
// Повтор отдает 409, несуществующий магазин - 400.
func (s *RatingServiceImpl) CreateRating(db *gorm.DB, p *auth.Principal, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	if err := authorize(p, auth.ActionCreateRating, auth.Facts{}); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		StoreID: req.StoreID,
		UserID:  p.UserID,
		Score:   req.Rating,
		Comment: req.Comment,
	}

	if err := s.ratingRepo.Create(db, rating); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRatingAlreadyExists):
			return nil, apperrors.ErrRatingAlreadyExists
		case errors.Is(err, repositories.ErrRatingStoreNotFound):
			return nil, apperrors.ErrReferencedResourceNotFound
		case errors.Is(err, repositories.ErrRatingRaterNotFound):
			// токен пережил удаление своего пользователя
			return nil, apperrors.ErrInvalidToken
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	metrics.RecordRatingWrite("create")
	resp := dto.NewRatingResponse(rating)
	return &resp, nil
}

// UpdateRating меняет только собственную оценку (RaterScoped в таблице доступа)
func (s *RatingServiceImpl) UpdateRating(db *gorm.DB, p *auth.Principal, ratingID uint, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error) {
	if err := authorize(p, auth.ActionUpdateRating, auth.Facts{}); err != nil {
		return nil, err
	}

	scope := ratingScope(p, auth.ActionUpdateRating, ratingID)
	rating, err := s.ratingRepo.Update(db, scope, req.Rating, req.Comment)
	if err != nil {
		return nil, mapRatingError(err)
	}

	metrics.RecordRatingWrite("update")
	resp := dto.NewRatingResponse(rating)
	return &resp, nil
}

func (s *RatingServiceImpl) DeleteRating(db *gorm.DB, p *auth.Principal, ratingID uint) error {
	if err := authorize(p, auth.ActionDeleteRating, auth.Facts{}); err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(db, ratingScope(p, auth.ActionDeleteRating, ratingID)); err != nil {
		return mapRatingError(err)
	}

	metrics.RecordRatingWrite("delete")
	return nil
}

func mapRatingError(err error) error {
	if errors.Is(err, repositories.ErrRatingNotFound) {
		return apperrors.ErrRatingNotFound
	}
	return apperrors.InternalError(err)
}
