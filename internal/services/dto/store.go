package dto

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"store_rating_backend/internal/models"
	"store_rating_backend/internal/repositories"
)

// StoreQuery - параметры списка магазинов
type StoreQuery struct {
	Search  string `form:"search"`
	Address string `form:"address"`
	Sort    string `form:"sort" validate:"omitempty,store-sort"`
	Order   string `form:"order" validate:"omitempty,sort-order"`
	Page    int    `form:"page" validate:"omitempty,min=1"`
	Limit   int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

func (q *StoreQuery) Normalize() {
	q.Search = strings.TrimSpace(q.Search)
	q.Address = strings.TrimSpace(q.Address)
	q.Order = strings.ToLower(q.Order)
}

func (q StoreQuery) ValidationMessages() map[string]string {
	return map[string]string{
		"page":  "Page must be a positive integer",
		"limit": "Limit must be between 1 and 100",
	}
}

// CreateStoreRequest - создание магазина администратором
type CreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Address *string `json:"address" validate:"omitempty,max=400"`
	OwnerID *uint   `json:"owner_id"`
}

func (r *CreateStoreRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeOptionalEmail(r.Email)
	r.Address = trimOptional(r.Address)
}

func (r CreateStoreRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":     "Store name is required",
		"name.max": "Store name must not exceed 255 characters",
		"email":    "Valid email is required",
		"address":  "Address must not exceed 400 characters",
		"owner_id": "Owner ID must be an integer",
	}
}

// UpdateStoreRequest - частичное обновление: меняются только переданные поля
type UpdateStoreRequest struct {
	Name    *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Email   *string      `json:"email" validate:"omitempty,email,max=255"`
	Address *string      `json:"address" validate:"omitempty,max=400"`
	OwnerID NullableUint `json:"owner_id"`
}

func (r *UpdateStoreRequest) Normalize() {
	r.Name = trimOptional(r.Name)
	r.Email = normalizeOptionalEmail(r.Email)
	r.Address = trimOptional(r.Address)
}

func (r UpdateStoreRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":     "Store name cannot be empty",
		"name.max": "Store name must not exceed 255 characters",
		"email":    "Valid email is required",
		"address":  "Address must not exceed 400 characters",
		"owner_id": "Owner ID must be an integer",
	}
}

// Fields - карта колонок для UPDATE. Пустая карта = нечего обновлять.
func (r *UpdateStoreRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Address != nil {
		fields["address"] = *r.Address
	}
	if r.OwnerID.Set {
		fields["owner_id"] = r.OwnerID.Value
	}
	return fields
}

// NullableUint различает "поле не передано" и "передан null"
type NullableUint struct {
	Set   bool
	Value *uint
}

func (n *NullableUint) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v uint
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// UserRatingSummary - оценка вызывающего пользователя для магазина
type UserRatingSummary struct {
	ID      uint    `json:"id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// StoreResponse - магазин с агрегатами по оценкам.
// UserRating отдается только аутентифицированному клиенту (null если не оценивал).
type StoreResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Address     *string   `json:"address"`
	OwnerID     *uint     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	AvgRating   float64   `json:"avg_rating"`
	RatingCount int64     `json:"rating_count"`

	UserRating *UserRatingSummary `json:"-"`
	withUser   bool
}

// MarshalJSON добавляет user_rating только для аутентифицированного запроса
func (s StoreResponse) MarshalJSON() ([]byte, error) {
	type plain StoreResponse
	if !s.withUser {
		return json.Marshal(plain(s))
	}
	return json.Marshal(struct {
		plain
		UserRating *UserRatingSummary `json:"user_rating"`
	}{plain(s), s.UserRating})
}

// AttachUserRating помечает ответ как персонализированный
func (s *StoreResponse) AttachUserRating(r *UserRatingSummary) {
	s.withUser = true
	s.UserRating = r
}

func NewStoreResponse(row *repositories.StoreSummary) StoreResponse {
	return StoreResponse{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Address:     row.Address,
		OwnerID:     row.OwnerID,
		CreatedAt:   row.CreatedAt,
		AvgRating:   RoundRating(row.AvgRating),
		RatingCount: row.RatingCount,
	}
}

// RoundRating округляет среднюю до одного знака (половина от нуля)
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

type StoreListResponse struct {
	Stores     []StoreResponse `json:"stores"`
	Pagination Pagination      `json:"pagination"`
}

// StoreDetails - строка магазина после создания/обновления
type StoreDetails struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Address   *string   `json:"address"`
	OwnerID   *uint     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewStoreDetails(s *models.Store) StoreDetails {
	return StoreDetails{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// RaterResponse - оценка вместе с автором
type RaterResponse struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

type RatersResponse struct {
	Raters []RaterResponse `json:"raters"`
}

func normalizeOptionalEmail(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeEmail(*s)
	return &v
}
