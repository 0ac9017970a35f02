package audit

import (
	"time"

	"github.com/dbseal/encscan/internal/catalog"
)

// Scope says at which level encryption evidence was found for a table.
// Column-level evidence takes final precedence in the reported scope even
// when table-level evidence is also present.
type Scope string

const (
	ScopeNone   Scope = "none"
	ScopeTable  Scope = "table"
	ScopeColumn Scope = "column"
)

// Algorithm is the encryption algorithm family inferred from catalog text.
// AlgoAESDefault means table-level encryption was detected but no algorithm
// was named — MySQL encrypts with AES unless told otherwise.
type Algorithm string

const (
	AlgoNone       Algorithm = ""
	AlgoAES        Algorithm = "AES"
	AlgoDES        Algorithm = "DES"
	AlgoTripleDES  Algorithm = "3DES"
	AlgoAESDefault Algorithm = "AES (default)"
)

// Verdict is the classification result for a single table.
//
// Invariants:
//   - Encrypted == false iff Scope == ScopeNone
//   - Algorithm != AlgoNone only when Encrypted (column-only evidence
//     leaves it AlgoNone: column text names no table algorithm)
//   - len(FlaggedColumns) > 0 implies Scope == ScopeColumn
type Verdict struct {
	Encrypted       bool             `json:"encrypted"`
	Scope           Scope            `json:"scope"`
	Algorithm       Algorithm        `json:"algorithm,omitempty"`
	CreateOptions   string           `json:"create_options,omitempty"`
	CreateStatement string           `json:"create_statement,omitempty"`
	FlaggedColumns  []catalog.Column `json:"flagged_columns,omitempty"`
	Err             string           `json:"error,omitempty"`
}

// TableResult pairs a table name with its verdict.
type TableResult struct {
	Table   string  `json:"table_name"`
	Verdict Verdict `json:"verdict"`
}

// Report is the database-wide scan result. Tables appear in exactly one
// bucket; ordering within each bucket is enumeration order, not sorted.
type Report struct {
	ID          string        `json:"id"`
	Host        string        `json:"host"`
	Database    string        `json:"database"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  time.Time     `json:"finished_at"`
	TotalTables int           `json:"total_tables"`
	Encrypted   []TableResult `json:"encrypted_tables"`
	Unencrypted []TableResult `json:"unencrypted_tables"`
}

// Rate returns the fraction of tables found encrypted. The second return
// is false when the report covers zero tables — the rate is undefined then
// and must not be shown.
func (r *Report) Rate() (float64, bool) {
	if r.TotalTables == 0 {
		return 0, false
	}
	return float64(len(r.Encrypted)) / float64(r.TotalTables), true
}
