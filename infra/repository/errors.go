package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mlisik/walletd/pkg/domain"
)

// mapError converts driver and GORM errors into domain errors so that
// database concerns never leak past this package. GORM's TranslateError
// covers most drivers; the pgconn branch catches Postgres constraint
// violations that arrive untranslated.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return domain.ErrConflict
		}
	}
	return err
}
