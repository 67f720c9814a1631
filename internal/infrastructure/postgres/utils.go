package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// violatesUnique reporta si err es una violación de constraint UNIQUE
// (SQLSTATE 23505): NIT de empresa, SKU por empresa o email por empresa.
// Los repositorios la traducen a domain.ErrDuplicate.
func violatesUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
