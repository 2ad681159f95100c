package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"store_rating_backend/internal/models"
	"store_rating_backend/internal/repositories"

	"gorm.io/gorm"
)

// testDB - *gorm.DB без соединения; фейковые репозитории его не используют
func testDB() *gorm.DB {
	return &gorm.DB{
		Config:    &gorm.Config{},
		Statement: &gorm.Statement{Context: context.Background()},
	}
}

// ---------------- users ----------------

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
	stores *fakeStoreRepo
	rates  *fakeRatingRepo
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(_ *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByID(_ *gorm.DB, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ *gorm.DB, id uint, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) Delete(_ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	if r.stores != nil {
		r.stores.clearOwner(id)
	}
	if r.rates != nil {
		r.rates.deleteWhere(func(rt *models.Rating) bool { return rt.UserID == id })
	}
	return nil
}

func (r *fakeUserRepo) FindWithFilter(_ *gorm.DB, f repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" {
			s := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) && !strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, f.Page, f.PageSize), int64(len(out)), nil
}

func (r *fakeUserRepo) Count(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// ---------------- stores ----------------

type fakeStoreRepo struct {
	mu     sync.Mutex
	nextID uint
	stores map[uint]*models.Store
	rates  *fakeRatingRepo
	users  *fakeUserRepo
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: map[uint]*models.Store{}}
}

func (r *fakeStoreRepo) clearOwner(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stores {
		if s.OwnerID != nil && *s.OwnerID == userID {
			s.OwnerID = nil
		}
	}
}

func (r *fakeStoreRepo) ownerExists(id *uint) bool {
	if id == nil || r.users == nil {
		return true
	}
	_, err := r.users.FindByID(nil, *id)
	return err == nil
}

func (r *fakeStoreRepo) Create(_ *gorm.DB, store *models.Store) error {
	if !r.ownerExists(store.OwnerID) {
		return repositories.ErrStoreOwnerNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	store.ID = r.nextID
	store.CreatedAt = time.Now()
	cp := *store
	r.stores[store.ID] = &cp
	return nil
}

func (r *fakeStoreRepo) FindByID(_ *gorm.DB, id uint) (*models.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, repositories.ErrStoreNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) summary(s *models.Store) repositories.StoreSummary {
	row := repositories.StoreSummary{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
	}
	if r.rates != nil {
		var sum int
		for _, rt := range r.rates.all() {
			if rt.StoreID == s.ID {
				sum += rt.Score
				row.RatingCount++
			}
		}
		if row.RatingCount > 0 {
			row.AvgRating = float64(sum) / float64(row.RatingCount)
		}
	}
	return row
}

func (r *fakeStoreRepo) FindSummaryByID(_ *gorm.DB, id uint) (*repositories.StoreSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, repositories.ErrStoreNotFound
	}
	row := r.summary(s)
	return &row, nil
}

func (r *fakeStoreRepo) FindWithFilter(_ *gorm.DB, f repositories.StoreFilter) ([]repositories.StoreSummary, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rows []repositories.StoreSummary
	for _, s := range r.stores {
		if f.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.Address != "" && (s.Address == nil || !strings.Contains(strings.ToLower(*s.Address), strings.ToLower(f.Address))) {
			continue
		}
		rows = append(rows, r.summary(s))
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool
		switch f.SortBy {
		case "rating":
			if a.AvgRating == b.AvgRating {
				return a.ID < b.ID
			}
			less = a.AvgRating < b.AvgRating
		default:
			if a.Name == b.Name {
				return a.ID < b.ID
			}
			less = a.Name < b.Name
		}
		if f.Desc {
			return !less
		}
		return less
	})
	return paginate(rows, f.Page, f.PageSize), int64(len(rows)), nil
}

func (r *fakeStoreRepo) Update(_ *gorm.DB, id uint, fields map[string]interface{}) (*models.Store, error) {
	if v, ok := fields["owner_id"]; ok {
		if owner, _ := v.(*uint); !r.ownerExists(owner) {
			return nil, repositories.ErrStoreOwnerNotFound
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, repositories.ErrStoreNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			s.Name = v.(string)
		case "email":
			e := v.(string)
			s.Email = &e
		case "address":
			a := v.(string)
			s.Address = &a
		case "owner_id":
			s.OwnerID = v.(*uint)
		}
	}
	s.UpdatedAt = time.Now()
	cp := *s
	return &cp, nil
}

func (r *fakeStoreRepo) Delete(_ *gorm.DB, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[id]; !ok {
		return repositories.ErrStoreNotFound
	}
	delete(r.stores, id)
	if r.rates != nil {
		r.rates.deleteWhere(func(rt *models.Rating) bool { return rt.StoreID == id })
	}
	return nil
}

func (r *fakeStoreRepo) Count(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.stores)), nil
}

// ---------------- ratings ----------------

type fakeRatingRepo struct {
	mu      sync.Mutex
	nextID  uint
	ratings map[uint]*models.Rating
	stores  *fakeStoreRepo
	users   *fakeUserRepo
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: map[uint]*models.Rating{}}
}

func (r *fakeRatingRepo) all() []models.Rating {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Rating, 0, len(r.ratings))
	for _, rt := range r.ratings {
		out = append(out, *rt)
	}
	return out
}

func (r *fakeRatingRepo) deleteWhere(match func(*models.Rating) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rt := range r.ratings {
		if match(rt) {
			delete(r.ratings, id)
		}
	}
}

func (r *fakeRatingRepo) Create(_ *gorm.DB, rating *models.Rating) error {
	if r.stores != nil {
		if _, err := r.stores.FindByID(nil, rating.StoreID); err != nil {
			return repositories.ErrRatingStoreNotFound
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rt := range r.ratings {
		if rt.StoreID == rating.StoreID && rt.UserID == rating.UserID {
			return repositories.ErrRatingAlreadyExists
		}
	}
	r.nextID++
	rating.ID = r.nextID
	rating.CreatedAt = time.Now()
	cp := *rating
	r.ratings[rating.ID] = &cp
	return nil
}

// inScope повторяет фильтр RatingScope.apply
func inScope(rt *models.Rating, scope repositories.RatingScope) bool {
	return rt != nil && (scope.RaterID == nil || rt.UserID == *scope.RaterID)
}

func (r *fakeRatingRepo) Update(_ *gorm.DB, scope repositories.RatingScope, score int, comment *string) (*models.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt := r.ratings[scope.ID]
	if !inScope(rt, scope) {
		return nil, repositories.ErrRatingNotFound
	}
	rt.Score = score
	rt.Comment = comment
	rt.UpdatedAt = time.Now()
	cp := *rt
	return &cp, nil
}

func (r *fakeRatingRepo) Delete(_ *gorm.DB, scope repositories.RatingScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !inScope(r.ratings[scope.ID], scope) {
		return repositories.ErrRatingNotFound
	}
	delete(r.ratings, scope.ID)
	return nil
}

func (r *fakeRatingRepo) FindByUserForStores(_ *gorm.DB, userID uint, storeIDs []uint) ([]models.Rating, error) {
	wanted := make(map[uint]bool, len(storeIDs))
	for _, id := range storeIDs {
		wanted[id] = true
	}
	var out []models.Rating
	for _, rt := range r.all() {
		if rt.UserID == userID && wanted[rt.StoreID] {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (r *fakeRatingRepo) FindRatersByStore(_ *gorm.DB, storeID uint) ([]repositories.RaterRow, error) {
	var out []repositories.RaterRow
	for _, rt := range r.all() {
		if rt.StoreID != storeID {
			continue
		}
		row := repositories.RaterRow{
			ID:        rt.ID,
			Rating:    rt.Score,
			Comment:   rt.Comment,
			CreatedAt: rt.CreatedAt,
			UserID:    rt.UserID,
		}
		if r.users != nil {
			if u, err := r.users.FindByID(nil, rt.UserID); err == nil {
				row.UserName = u.Name
				row.UserEmail = u.Email
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRatingRepo) Count(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ratings)), nil
}

// ---------------- helpers ----------------

type fakeRepos struct {
	users   *fakeUserRepo
	stores  *fakeStoreRepo
	ratings *fakeRatingRepo
}

func newFakeRepos() *fakeRepos {
	users := newFakeUserRepo()
	stores := newFakeStoreRepo()
	ratings := newFakeRatingRepo()

	users.stores, users.rates = stores, ratings
	stores.rates, stores.users = ratings, users
	ratings.stores, ratings.users = stores, users

	return &fakeRepos{users: users, stores: stores, ratings: ratings}
}

func paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
