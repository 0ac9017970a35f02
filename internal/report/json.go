// Package report turns a finished audit.Report into its outward forms:
// a persisted JSON file, a rendered HTML document, a coloured console
// summary, and an SMTP delivery. Emitter failures never alter the
// in-memory report and never abort each other.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/errs"
)

// JSONWriter persists the report as a field-complete JSON document.
type JSONWriter struct {
	// Dir is the directory for generated filenames. Empty means the
	// working directory.
	Dir string
}

// Persist writes the report and returns the location written to. When path
// is empty a filename is generated from the database name and table count.
func (w *JSONWriter) Persist(report *audit.Report, path string) (string, error) {
	if path == "" {
		name := fmt.Sprintf("encryption_scan_%s_%d_tables.json", report.Database, report.TotalTables)
		path = filepath.Join(w.Dir, name)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errs.Wrap(errs.ErrKindPersistence, "cannot marshal report", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errs.Wrap(errs.ErrKindPersistence, fmt.Sprintf("cannot write report to %s", path), err)
	}

	return path, nil
}
