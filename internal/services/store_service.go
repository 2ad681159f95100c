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

type StoreService interface {
	// Чтение (p == nil для анонимного клиента)
	ListStores(db *gorm.DB, p *auth.Principal, query *dto.StoreQuery) (*dto.StoreListResponse, error)
	GetStore(db *gorm.DB, p *auth.Principal, storeID uint) (*dto.StoreResponse, error)
	ListRaters(db *gorm.DB, p *auth.Principal, storeID uint) (*dto.RatersResponse, error)

	// Администрирование
	CreateStore(db *gorm.DB, req *dto.CreateStoreRequest) (*dto.StoreDetails, error)
	UpdateStore(db *gorm.DB, storeID uint, req *dto.UpdateStoreRequest) (*dto.StoreDetails, error)
	DeleteStore(db *gorm.DB, storeID uint) error
}

type StoreServiceImpl struct {
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
}

func NewStoreService(storeRepo repositories.StoreRepository, ratingRepo repositories.RatingRepository) StoreService {
	return &StoreServiceImpl{
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

// ---------------- Read Operations ----------------

func (s *StoreServiceImpl) ListStores(db *gorm.DB, p *auth.Principal, query *dto.StoreQuery) (*dto.StoreListResponse, error) {
	if err := authorize(p, auth.ActionListStores, auth.Facts{}); err != nil {
		return nil, err
	}

	page, limit := dto.PageParams(query.Page, query.Limit)
	sortBy := query.Sort
	if sortBy == "" {
		sortBy = "name"
	}

	rows, total, err := s.storeRepo.FindWithFilter(db, repositories.StoreFilter{
		Search:   query.Search,
		Address:  query.Address,
		SortBy:   sortBy,
		Desc:     query.Order == "desc",
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stores := make([]dto.StoreResponse, 0, len(rows))
	for i := range rows {
		stores = append(stores, dto.NewStoreResponse(&rows[i]))
	}

	if p != nil {
		if err := s.attachUserRatings(db, p.UserID, stores); err != nil {
			return nil, err
		}
	}

	return &dto.StoreListResponse{
		Stores:     stores,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *StoreServiceImpl) GetStore(db *gorm.DB, p *auth.Principal, storeID uint) (*dto.StoreResponse, error) {
	if err := authorize(p, auth.ActionViewStore, auth.Facts{}); err != nil {
		return nil, err
	}

	row, err := s.storeRepo.FindSummaryByID(db, storeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	stores := []dto.StoreResponse{dto.NewStoreResponse(row)}
	if p != nil {
		if err := s.attachUserRatings(db, p.UserID, stores); err != nil {
			return nil, err
		}
	}
	return &stores[0], nil
}

// attachUserRatings - одна выборка оценок вызывающего для всей страницы
func (s *StoreServiceImpl) attachUserRatings(db *gorm.DB, userID uint, stores []dto.StoreResponse) error {
	ids := make([]uint, 0, len(stores))
	for _, st := range stores {
		ids = append(ids, st.ID)
	}

	ratings, err := s.ratingRepo.FindByUserForStores(db, userID, ids)
	if err != nil {
		return apperrors.InternalError(err)
	}

	byStore := make(map[uint]*dto.UserRatingSummary, len(ratings))
	for _, r := range ratings {
		byStore[r.StoreID] = &dto.UserRatingSummary{ID: r.ID, Rating: r.Score, Comment: r.Comment}
	}
	for i := range stores {
		stores[i].AttachUserRating(byStore[stores[i].ID])
	}
	return nil
}

// ListRaters - оценки магазина с авторами. Владелец видит только свои магазины.
func (s *StoreServiceImpl) ListRaters(db *gorm.DB, p *auth.Principal, storeID uint) (*dto.RatersResponse, error) {
	if err := accessError(auth.CheckRole(p, auth.ActionViewRaters)); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(db, storeID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	owns := store.OwnerID != nil && *store.OwnerID == p.UserID
	if err := authorize(p, auth.ActionViewRaters, auth.Facts{OwnsResource: owns}); err != nil {
		return nil, err
	}

	rows, err := s.ratingRepo.FindRatersByStore(db, storeID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.RatersResponse{Raters: make([]dto.RaterResponse, 0, len(rows))}
	for _, r := range rows {
		resp.Raters = append(resp.Raters, dto.RaterResponse{
			ID:        r.ID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
			UserID:    r.UserID,
			UserName:  r.UserName,
			UserEmail: r.UserEmail,
		})
	}
	return resp, nil
}

// ---------------- Admin Operations ----------------

func (s *StoreServiceImpl) CreateStore(db *gorm.DB, req *dto.CreateStoreRequest) (*dto.StoreDetails, error) {
	store := &models.Store{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	}

	if err := s.storeRepo.Create(db, store); err != nil {
		return nil, mapStoreError(err)
	}

	logger.CtxInfo(db.Statement.Context, "Store created", "store_id", store.ID)
	details := dto.NewStoreDetails(store)
	return &details, nil
}

func (s *StoreServiceImpl) UpdateStore(db *gorm.DB, storeID uint, req *dto.UpdateStoreRequest) (*dto.StoreDetails, error) {
	fields := req.Fields()
	if len(fields) == 0 {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	store, err := s.storeRepo.Update(db, storeID, fields)
	if err != nil {
		return nil, mapStoreError(err)
	}

	details := dto.NewStoreDetails(store)
	return &details, nil
}

func (s *StoreServiceImpl) DeleteStore(db *gorm.DB, storeID uint) error {
	if err := s.storeRepo.Delete(db, storeID); err != nil {
		return mapStoreError(err)
	}
	logger.CtxInfo(db.Statement.Context, "Store deleted", "store_id", storeID)
	return nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrStoreNotFound):
		return apperrors.ErrStoreNotFound
	case errors.Is(err, repositories.ErrStoreOwnerNotFound):
		return apperrors.ErrReferencedResourceNotFound
	default:
		return apperrors.InternalError(err)
	}
}
