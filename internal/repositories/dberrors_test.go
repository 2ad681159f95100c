package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"postgres unique", &pgconn.PgError{Code: "23505", ConstraintName: "idx_ratings_store_user"}, ErrDuplicateKey},
		{"postgres fk", &pgconn.PgError{Code: "23503"}, ErrForeignKey},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrDuplicateKey},
		{"mysql fk", &mysql.MySQLError{Number: 1452}, ErrForeignKey},
		{"gorm translated duplicate", gorm.ErrDuplicatedKey, ErrDuplicateKey},
		{"gorm translated fk", gorm.ErrForeignKeyViolated, ErrForeignKey},
		{"wrapped postgres unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslateErrorIgnoresOtherErrors(t *testing.T) {
	// Текст похож на нарушение уникальности, но кода нет - это не конфликт
	plain := errors.New(`duplicate key value violates unique constraint "users_email_key"`)
	assert.Equal(t, plain, translateError(plain))

	checkViolation := &pgconn.PgError{Code: "23514"}
	got := translateError(checkViolation)
	assert.NotErrorIs(t, got, ErrDuplicateKey)
	assert.NotErrorIs(t, got, ErrForeignKey)

	assert.NoError(t, translateError(nil))
}
