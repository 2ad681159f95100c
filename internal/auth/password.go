package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordMinLength = 8
	PasswordMaxLength = 16
)

var (
	ErrPasswordLength     = errors.New("password must be between 8 and 16 characters")
	ErrPasswordComplexity = errors.New("password must contain at least one uppercase letter and one special character")
)

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет политику паролей: 8-16 символов,
// хотя бы одна заглавная латинская буква и один символ вне [A-Za-z0-9].
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < PasswordMinLength || n > PasswordMaxLength {
		return ErrPasswordLength
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return ErrPasswordComplexity
	}
	return nil
}
