package services

import (
	"errors"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/models"
	"store_rating_backend/internal/repositories"
	"store_rating_backend/internal/services/dto"
	"store_rating_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AdminService interface {
	GetMetrics(db *gorm.DB) (*dto.MetricsResponse, error)
	ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.UserListResponse, error)
	CreateUser(db *gorm.DB, req *dto.SignupRequest) (*dto.UserResponse, error)
	DeleteUser(db *gorm.DB, p *auth.Principal, userID uint) error
}

type AdminServiceImpl struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

func NewAdminService(
	userRepo repositories.UserRepository,
	storeRepo repositories.StoreRepository,
	ratingRepo repositories.RatingRepository,
) AdminService {
	return &AdminServiceImpl{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *AdminServiceImpl) GetMetrics(db *gorm.DB) (*dto.MetricsResponse, error) {
	users, err := s.userRepo.Count(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	stores, err := s.storeRepo.Count(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	ratings, err := s.ratingRepo.Count(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.MetricsResponse{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

func (s *AdminServiceImpl) ListUsers(db *gorm.DB, filter *dto.AdminUserFilter) (*dto.UserListResponse, error) {
	page, limit := dto.PageParams(filter.Page, filter.Limit)

	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     models.UserRole(filter.Role),
		Search:   filter.Search,
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(users)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}

// CreateUser - те же правила, что у регистрации, но без выдачи токена
func (s *AdminServiceImpl) CreateUser(db *gorm.DB, req *dto.SignupRequest) (*dto.UserResponse, error) {
	user, err := createUser(db, s.userRepo, req)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(db.Statement.Context, "User created by admin", "user_id", user.ID, "role", user.Role)
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// DeleteUser - удаление пользователя с каскадом; удалить себя нельзя
func (s *AdminServiceImpl) DeleteUser(db *gorm.DB, p *auth.Principal, userID uint) error {
	facts := auth.Facts{TargetsSelf: p != nil && p.UserID == userID}
	if err := authorize(p, auth.ActionDeleteUser, facts); err != nil {
		return err
	}

	if err := s.userRepo.Delete(db, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(db.Statement.Context, "User deleted", "user_id", userID, "admin_id", p.UserID)
	return nil
}
