package services

import (
	"errors"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/repositories"
	"store_rating_backend/internal/services/dto"
	"store_rating_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	ChangePassword(db *gorm.DB, p *auth.Principal, req *dto.ChangePasswordRequest) error
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

// ChangePassword - смена собственного пароля после проверки текущего
func (s *UserServiceImpl) ChangePassword(db *gorm.DB, p *auth.Principal, req *dto.ChangePasswordRequest) error {
	if err := authorize(p, auth.ActionChangeOwnPwd, auth.Facts{}); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(db, p.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrWrongCurrentPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdatePassword(db, user.ID, hash); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(db.Statement.Context, "Password changed", "user_id", user.ID)
	return nil
}
