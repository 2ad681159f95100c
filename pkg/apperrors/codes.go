package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidReference ErrorCode = "INVALID_REFERENCE"
	CodeCannotModifySelf ErrorCode = "CANNOT_MODIFY_SELF"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Аутентификация и авторизация
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
