// Package mysql is the MySQL implementation of catalog.Reader, backed by
// database/sql and information_schema. All queries are read-only.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/dbseal/encscan/internal/catalog"
	"github.com/dbseal/encscan/internal/errs"
)

// Config holds the connection parameters for one scan run.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string

	ConnectTimeout time.Duration // time limit for establishing the connection
	QueryTimeout   time.Duration // per-query deadline applied by the driver
}

// DefaultConfig returns connection settings with sane timeouts.
func DefaultConfig() *Config {
	return &Config{
		Host:           "localhost",
		Port:           3306,
		ConnectTimeout: 10 * time.Second,
		QueryTimeout:   30 * time.Second,
	}
}

// DSN builds the go-sql-driver DSN from the config.
func (c *Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.DBName = c.Database
	mc.Timeout = c.ConnectTimeout
	return mc.FormatDSN()
}

// Driver is the MySQL catalog reader. The scan owns exactly one connection
// for its whole lifetime; Close must run on every exit path.
type Driver struct {
	db           *sql.DB
	database     string
	queryTimeout time.Duration
}

// New opens a MySQL connection using the provided Config and returns a
// Driver. It pings before returning, so a connection failure surfaces here
// and nowhere later.
func New(ctx context.Context, cfg *Config) (*Driver, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	// The scan is a single logical flow over one exclusively-owned
	// connection; no pool is wanted.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &Driver{db: db, database: cfg.Database, queryTimeout: cfg.QueryTimeout}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "cannot reach mysql", err)
	}

	return d, nil
}

// Close releases the connection.
func (d *Driver) Close() {
	_ = d.db.Close()
}

// Ping verifies the database is still reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return errs.Wrap(errs.ErrKindConnectionFailed, "ping failed", err)
	}
	return nil
}

// --- catalog.Reader implementation ---

// ListTables returns all base table names in the target database, in the
// order information_schema enumerates them.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_type   = 'BASE TABLE'`

	ctx, cancel := d.withDeadline(ctx)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, q, d.database)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating tables")
	}
	return tables, nil
}

// TableFacts returns the creation options, table comment and full create
// statement for one table.
func (d *Driver) TableFacts(ctx context.Context, table string) (*catalog.TableFacts, error) {
	const q = `
		SELECT COALESCE(create_options, ''),
		       COALESCE(table_comment, '')
		FROM information_schema.tables
		WHERE table_schema = ?
		  AND table_name   = ?`

	ctx, cancel := d.withDeadline(ctx)
	defer cancel()

	facts := &catalog.TableFacts{}
	err := d.db.QueryRowContext(ctx, q, d.database, table).
		Scan(&facts.CreateOptions, &facts.TableComment)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("failed to read facts for table %q", table))
	}

	// SHOW CREATE TABLE takes an identifier, not a placeholder.
	var name, stmt string
	showQ := fmt.Sprintf("SHOW CREATE TABLE %s", quoteIdent(table))
	if err := d.db.QueryRowContext(ctx, showQ).Scan(&name, &stmt); err != nil {
		return nil, mapError(err, fmt.Sprintf("SHOW CREATE TABLE failed for %q", table))
	}
	facts.CreateStatement = stmt

	return facts, nil
}

// Columns returns the column descriptors for one table in ordinal order.
func (d *Driver) Columns(ctx context.Context, table string) ([]catalog.Column, error) {
	const q = `
		SELECT column_name,
		       data_type,
		       column_type,
		       COALESCE(column_comment, ''),
		       COALESCE(extra, '')
		FROM information_schema.columns
		WHERE table_schema = ?
		  AND table_name   = ?
		ORDER BY ordinal_position`

	ctx, cancel := d.withDeadline(ctx)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, q, d.database, table)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("failed to read columns for table %q", table))
	}
	defer rows.Close()

	var cols []catalog.Column
	for rows.Next() {
		var c catalog.Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.ColumnType, &c.Comment, &c.Extra); err != nil {
			return nil, mapError(err, "failed to scan column info")
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating columns")
	}
	return cols, nil
}

func (d *Driver) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

// quoteIdent backtick-quotes a MySQL identifier.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
