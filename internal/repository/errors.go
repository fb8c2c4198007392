package repository

import (
	"database/sql/driver"
	"errors"
	"net"

	"go-slab-ws/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translate maps store errors onto the apperr taxonomy. field/value name
// the unique key the write was keyed on.
func translate(err error, field, value string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperr.ConflictError{Field: field, Value: value, Err: err}
	case isConnectivity(err):
		return &apperr.ConnectivityError{Err: err}
	}
	return err
}

func isConnectivity(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
