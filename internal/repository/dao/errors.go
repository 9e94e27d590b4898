package dao

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")

	ErrUnitNotFound        = fmt.Errorf("unit %w", ErrNotFound)
	ErrPatrolNotFound      = fmt.Errorf("patrol %w", ErrNotFound)
	ErrChallengeNotFound   = fmt.Errorf("challenge %w", ErrNotFound)
	ErrCompletionNotFound  = fmt.Errorf("completion %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrTerrainNotFound     = fmt.Errorf("terrain %w", ErrNotFound)
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)

	ErrUnitNameExists      = fmt.Errorf("unit name %w", ErrDuplicate)
	ErrPatrolNameExists    = fmt.Errorf("patrol name %w", ErrDuplicate)
	ErrChallengeNameExists = fmt.Errorf("challenge name %w", ErrDuplicate)
	ErrUsernameExists      = fmt.Errorf("username %w", ErrDuplicate)
	ErrTerrainNameExists   = fmt.Errorf("terrain name %w", ErrDuplicate)
	ErrAlreadyCompleted    = fmt.Errorf("completion for this patrol and challenge %w", ErrDuplicate)
)

// isUniqueViolation recognises unique-constraint failures from both supported
// drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translate maps gorm/driver errors onto the package sentinels.
func translate(err, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if duplicate != nil && isUniqueViolation(err) {
		return duplicate
	}

	return err
}
