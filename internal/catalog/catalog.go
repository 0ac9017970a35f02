// Package catalog defines the read-only contract for database metadata.
// The audit core talks only to this interface — it never imports the
// mysql driver package directly.
package catalog

import "context"

// Column is an immutable snapshot of one column's catalog entry.
// ColumnType is the full declared type (e.g. "varbinary(255)"), DataType
// the bare type name. Comment and Extra are free text from the catalog.
type Column struct {
	Name       string `json:"column_name"`
	DataType   string `json:"data_type"`
	ColumnType string `json:"column_type"`
	Comment    string `json:"comment"`
	Extra      string `json:"extra"`
}

// TableFacts is the table-level catalog text inspected by the classifier.
type TableFacts struct {
	CreateOptions   string `json:"create_options"`
	TableComment    string `json:"table_comment"`
	CreateStatement string `json:"create_statement"`
}

// Reader is the catalog introspection interface consumed by the scanner.
// All methods are pure reads; any of them may fail with an
// errs.ErrKindCatalogRead error, which callers tolerate per table.
type Reader interface {
	// ListTables returns all base table names in the target database,
	// in the order the catalog enumerates them.
	ListTables(ctx context.Context) ([]string, error)

	// TableFacts returns the creation options and statement for one table.
	TableFacts(ctx context.Context, table string) (*TableFacts, error)

	// Columns returns the column descriptors for one table in
	// ordinal position order.
	Columns(ctx context.Context, table string) ([]Column, error)
}
