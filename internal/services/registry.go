package services

import (
	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService   AuthService
	UserService   UserService
	AdminService  AdminService
	StoreService  StoreService
	RatingService RatingService
}

// NewServiceContainer собирает сервисы поверх репозиториев
func NewServiceContainer(tokens *auth.TokenManager) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	storeRepo := repositories.NewStoreRepository()
	ratingRepo := repositories.NewRatingRepository()

	return &ServiceContainer{
		AuthService:   NewAuthService(userRepo, tokens),
		UserService:   NewUserService(userRepo),
		AdminService:  NewAdminService(userRepo, storeRepo, ratingRepo),
		StoreService:  NewStoreService(storeRepo, ratingRepo),
		RatingService: NewRatingService(ratingRepo),
	}
}
