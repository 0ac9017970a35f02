package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/dbseal/encscan/internal/errs"
)

// mapError translates go-sql-driver/mysql errors into *errs.Error.
// Connection and authentication failures are fatal to a run; everything
// else is a per-table catalog read failure the scan tolerates.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindCatalogRead, msg+": no catalog entry", err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// classifyMySQLCode maps MySQL error numbers to ErrKind.
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case 1044, 1045, 1046, 1049:
		// access denied / bad credentials / unknown database
		return errs.ErrKindConnectionFailed
	case 1040, 1203:
		// too many connections
		return errs.ErrKindConnectionFailed
	default:
		return errs.ErrKindCatalogRead
	}
}
