package services

import (
	"errors"
	"sync"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/logger"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/models"
	"store_rating_backend/internal/repositories"
	"store_rating_backend/internal/services/dto"
	"store_rating_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// dummyHash сравнивается с паролем, когда email не найден,
// чтобы время ответа не выдавало зарегистрированные адреса
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("dummy-Password!")
	return hash
})

// Register - регистрация нового пользователя
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	user, err := createUser(db, s.userRepo, req)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrEmailAlreadyExists) {
			metrics.RecordAuthAttempt("signup", "conflict")
		}
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordAuthAttempt("signup", "success")
	logger.CtxInfo(db.Statement.Context, "User registered", "user_id", user.ID, "role", user.Role)

	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserSummary(user),
	}, nil
}

// Login - аутентификация. Неизвестный email и неверный пароль неразличимы.
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			auth.CheckPasswordHash(req.Password, dummyHash())
			metrics.RecordAuthAttempt("login", "failure")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		metrics.RecordAuthAttempt("login", "failure")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordAuthAttempt("login", "success")
	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserSummary(user),
	}, nil
}

// createUser - общая часть регистрации и создания пользователя администратором
func createUser(db *gorm.DB, userRepo repositories.UserRepository, req *dto.SignupRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        dto.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Address:      req.Address,
		Role:         req.RoleOrDefault(),
	}

	if err := userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
