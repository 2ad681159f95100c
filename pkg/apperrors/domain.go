package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки домена. Сервисы возвращают их напрямую
или через WithError, хендлеры только отдают клиенту.
*/

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusConflict,
)

// ErrInvalidCredentials - одинаковая для "нет такого email" и "неверный пароль"
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrAuthRequired = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

var ErrAccessDenied = New(
	CodeForbidden,
	"auth",
	"Access denied",
	http.StatusForbidden,
)

var ErrWrongCurrentPassword = New(
	CodeInvalidCredentials,
	"auth",
	"Current password is incorrect",
	http.StatusUnauthorized,
)

var ErrTooManyAttempts = New(
	CodeRateLimited,
	"auth",
	"Too many authentication attempts, please try again later",
	http.StatusTooManyRequests,
)

// --- Users ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrCannotModifySelf = New(
	CodeCannotModifySelf,
	"user",
	"Cannot delete your own account",
	http.StatusBadRequest,
)

// --- Stores ---

var ErrStoreNotFound = New(
	CodeNotFound,
	"store",
	"Store not found",
	http.StatusNotFound,
)

var ErrNoFieldsToUpdate = New(
	CodeValidationFailed,
	"store",
	"No fields to update",
	http.StatusBadRequest,
)

// --- Ratings ---

// ErrRatingNotFound не различает "нет такой оценки" и "оценка чужая"
var ErrRatingNotFound = New(
	CodeNotFound,
	"rating",
	"Rating not found or unauthorized",
	http.StatusNotFound,
)

var ErrRatingAlreadyExists = New(
	CodeAlreadyExists,
	"rating",
	"You have already rated this store. Use update instead.",
	http.StatusConflict,
)

// --- Persistence ---

var ErrReferencedResourceNotFound = New(
	CodeInvalidReference,
	"resource",
	"Referenced resource not found",
	http.StatusBadRequest,
)

var ErrRouteNotFound = New(
	CodeNotFound,
	"request",
	"Route not found",
	http.StatusNotFound,
)
