// Package audit holds the core of encscan: the evidence classifier that
// decides per table whether catalog metadata shows encryption, and the
// scanner that aggregates verdicts into a database-wide report.
package audit

import (
	"strings"

	"github.com/dbseal/encscan/internal/catalog"
)

// tableMarkers are the substrings that mark table-level encryption in
// create options or the create statement. Matching is over lowercased text.
var tableMarkers = []string{"encryption", "encrypted"}

// algorithmRules maps catalog text to an algorithm family, first match wins.
// "3des" must be checked before the bare "des" rule or it would be
// mis-bucketed by the substring match.
var algorithmRules = []struct {
	marker string
	algo   Algorithm
}{
	{"3des", AlgoTripleDES},
	{"triple des", AlgoTripleDES},
	{"aes", AlgoAES},
	{"des", AlgoDES},
}

// columnTypeMarkers flag a column when its full type string mentions an
// encryption routine. "encrypt" also covers "encrypted" in the type string;
// a column matching several markers is still flagged once.
var columnTypeMarkers = []string{"aes_encrypt", "aes_decrypt", "encrypt", "decrypt"}

// Classify inspects one table's catalog text and column descriptors and
// returns its encryption verdict. It is a pure function: no I/O, no state.
//
// Table-level evidence from createOptions and createStatement is
// OR-combined; the algorithm family comes from whichever source first
// yields one (options first). Column-level evidence overrides the reported
// scope to ScopeColumn.
func Classify(createOptions, createStatement string, cols []catalog.Column) Verdict {
	v := Verdict{
		Scope:           ScopeNone,
		Algorithm:       AlgoNone,
		CreateOptions:   createOptions,
		CreateStatement: createStatement,
	}

	opts := strings.ToLower(createOptions)
	stmt := strings.ToLower(createStatement)

	if containsAny(opts, tableMarkers) {
		v.Encrypted = true
		v.Scope = ScopeTable
		v.Algorithm = inferAlgorithm(opts)
	}

	if containsAny(stmt, tableMarkers) {
		v.Encrypted = true
		if v.Scope == ScopeNone {
			v.Scope = ScopeTable
		}
		if v.Algorithm == AlgoNone {
			v.Algorithm = inferAlgorithm(stmt)
		}
	}

	for _, col := range cols {
		if columnFlagged(col) {
			v.FlaggedColumns = append(v.FlaggedColumns, col)
		}
	}

	if len(v.FlaggedColumns) > 0 {
		v.Encrypted = true
		v.Scope = ScopeColumn
	}

	return v
}

// inferAlgorithm maps already-lowercased table catalog text to an algorithm
// family. Callers only invoke it once a table marker matched, so a text
// naming no algorithm means the engine default.
func inferAlgorithm(text string) Algorithm {
	for _, r := range algorithmRules {
		if strings.Contains(text, r.marker) {
			return r.algo
		}
	}
	return AlgoAESDefault
}

// columnFlagged reports whether one column's catalog entry carries
// encryption evidence. A column is flagged at most once no matter how many
// markers match.
func columnFlagged(col catalog.Column) bool {
	colType := strings.ToLower(col.ColumnType)
	comment := strings.ToLower(col.Comment)
	extra := strings.ToLower(col.Extra)

	if strings.Contains(colType, "encrypted") ||
		strings.Contains(comment, "encrypted") ||
		strings.Contains(extra, "encrypted") {
		return true
	}

	return containsAny(colType, columnTypeMarkers)
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
