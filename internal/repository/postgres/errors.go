package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"dehusync/internal/repository"
)

const uniqueViolation = "23505"

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
