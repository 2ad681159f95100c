package repositories

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Классы нарушений ограничений БД. Репозитории уточняют их
// до своих доменных sentinel-ошибок (ErrUserAlreadyExists и т.д.).
var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("foreign key violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry  uint16 = 1062
	mysqlRowIsReferenced uint16 = 1451
	mysqlNoReferencedRow uint16 = 1452
)

// translateError классифицирует ошибку драйвера по коду, а не по тексту.
// Исходная ошибка остается в цепочке.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow || myErr.Number == mysqlRowIsReferenced
	}
	return false
}
