package services

import (
	"errors"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/repositories"
	"store_rating_backend/pkg/apperrors"
)

// authorize - проверка по таблице доступа с фактами о ресурсе
func authorize(p *auth.Principal, action auth.Action, facts auth.Facts) error {
	return accessError(auth.Check(p, action, facts))
}

// accessError переводит решение таблицы доступа в ошибку API
func accessError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrUnauthenticated):
		return apperrors.ErrAuthRequired
	case errors.Is(err, auth.ErrSelfTarget):
		return apperrors.ErrCannotModifySelf
	default:
		return apperrors.ErrAccessDenied
	}
}

// ratingScope - выборка оценки для действия: колонка RaterScoped таблицы
// ограничивает ее оценками вызывающего
func ratingScope(p *auth.Principal, action auth.Action, ratingID uint) repositories.RatingScope {
	scope := repositories.RatingScope{ID: ratingID}
	if auth.IsRaterScoped(action) {
		raterID := p.UserID
		scope.RaterID = &raterID
	}
	return scope
}
