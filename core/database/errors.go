package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	mysqlDuplicateEntry    = 1062
	postgresUniqueCode     = "23505"
	sqliteUniqueFailed     = "UNIQUE constraint failed"
	genericDuplicateKey    = "duplicate key"
	postgresDuplicateKeyPT = "duplicar valor da chave viola a restrição de unicidade"
)

// IsUniqueViolation reports whether err was caused by a unique constraint.
// Translated gorm errors are checked first, then driver specific errors, and
// finally the message text for drivers or locales that do neither.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == postgresUniqueCode
	}

	msg := err.Error()
	return strings.Contains(msg, sqliteUniqueFailed) ||
		strings.Contains(msg, genericDuplicateKey) ||
		strings.Contains(msg, postgresDuplicateKeyPT)
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
