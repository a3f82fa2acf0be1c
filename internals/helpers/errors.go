package helper

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log"

	gosqlite "github.com/glebarez/go-sqlite"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrDataIntegrity = errors.New("data integrity anomaly")
	ErrUnavailable   = errors.New("store unavailable")
)

// IsStoreUnavailable reports whether err means the store could not serve the
// request at all (timeouts, dropped connections, exhausted resources) for any
// of the supported drivers.
func IsStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysqlDriver.ErrInvalidConn) {
		return true
	}
	return pgUnavailable(err) || mysqlUnavailable(err) || sqliteUnavailable(err)
}

func pgUnavailable(err error) bool {
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "08", "53", "57":
			return true
		}
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

func mysqlUnavailable(err error) bool {
	var myErr *mysqlDriver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	switch myErr.Number {
	case 1040, // too many connections
		1203, // user has exceeded max_user_connections
		1205, // lock wait timeout
		3024: // query execution interrupted by max_execution_time
		return true
	}
	return false
}

func sqliteUnavailable(err error) bool {
	var liteErr *gosqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	switch liteErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
		return true
	}
	return false
}

// TagUnavailable wraps err with ErrUnavailable when the store could not serve
// it, leaving every other error untouched.
func TagUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) || !IsStoreUnavailable(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrDataIntegrity):
		return fiber.StatusConflict
	case IsStoreUnavailable(err):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// FromServiceError writes the error envelope for err. Messages of server-side
// failures are not echoed to the client.
func FromServiceError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	msg := err.Error()
	switch status {
	case fiber.StatusServiceUnavailable:
		log.Printf("[ERROR] %s %s: store unavailable: %v", c.Method(), c.Path(), err)
		msg = "service temporarily unavailable"
	case fiber.StatusInternalServerError:
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		msg = "internal server error"
	}
	return JsonError(c, status, msg)
}
