package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"farm-backend/internal/apperr"
)

// affected turns a write that touched no row into a NotFound error.
func affected(tag pgconn.CommandTag, err error, entity string, id int) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

// notFound maps pgx.ErrNoRows from a single-row read.
func notFound(err error, entity string, id int) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return err
}
