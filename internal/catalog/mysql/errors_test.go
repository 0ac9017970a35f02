package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/dbseal/encscan/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind errs.ErrKind
	}{
		{
			name:     "access denied is fatal",
			err:      &mysql.MySQLError{Number: 1045, Message: "Access denied for user"},
			wantKind: errs.ErrKindConnectionFailed,
		},
		{
			name:     "unknown database is fatal",
			err:      &mysql.MySQLError{Number: 1049, Message: "Unknown database 'nope'"},
			wantKind: errs.ErrKindConnectionFailed,
		},
		{
			name:     "missing table is a per-table read failure",
			err:      &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"},
			wantKind: errs.ErrKindCatalogRead,
		},
		{
			name:     "select privilege denied on one table",
			err:      &mysql.MySQLError{Number: 1142, Message: "SELECT command denied"},
			wantKind: errs.ErrKindCatalogRead,
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantKind: errs.ErrKindTimeout,
		},
		{
			name:     "no rows",
			err:      sql.ErrNoRows,
			wantKind: errs.ErrKindCatalogRead,
		},
		{
			name:     "anything else is treated as connectivity",
			err:      errors.New("driver: bad connection"),
			wantKind: errs.ErrKindConnectionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := mapError(tt.err, "query failed")
			assert.Equal(t, tt.wantKind, mapped.Kind)
			assert.True(t, errors.Is(mapped, tt.err))
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	assert.Nil(t, mapError(nil, "ignored"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, "`orders`", quoteIdent("orders"))
	assert.Equal(t, "`odd``name`", quoteIdent("odd`name"))
}

func TestConfigDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.User = "auditor"
	cfg.Password = "secret"
	cfg.Host = "db.internal"
	cfg.Port = 3307
	cfg.Database = "payments"

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "auditor:secret@tcp(db.internal:3307)/payments")
}
