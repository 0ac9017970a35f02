package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/dbseal/encscan/internal/audit"
)

// Console prints the human summary the operator sees after a one-shot scan.
type Console struct {
	out io.Writer
}

func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// Summarize writes totals, the encryption rate when defined, and a
// per-table status line for every scanned table.
func (c *Console) Summarize(report *audit.Report) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "ENCRYPTION SCAN SUMMARY")
	fmt.Fprintf(c.out, "Database:           %s @ %s\n", report.Database, report.Host)
	fmt.Fprintf(c.out, "Total tables:       %d\n", report.TotalTables)
	fmt.Fprintf(c.out, "Encrypted tables:   %d\n", len(report.Encrypted))
	fmt.Fprintf(c.out, "Unencrypted tables: %d\n", len(report.Unencrypted))

	if rate, ok := report.Rate(); ok {
		fmt.Fprintf(c.out, "Encryption rate:    %.1f%%\n", rate*100)
	}

	if report.TotalTables == 0 {
		fmt.Fprintln(c.out, color.YellowString("No tables found — nothing to report."))
		return
	}

	fmt.Fprintln(c.out)
	for _, r := range report.Encrypted {
		fmt.Fprintf(c.out, "%-30s %s\n", r.Table, color.GreenString("ENCRYPTED"))
		fmt.Fprintf(c.out, "  scope: %s", r.Verdict.Scope)
		if r.Verdict.Algorithm != audit.AlgoNone {
			fmt.Fprintf(c.out, "  algorithm: %s", r.Verdict.Algorithm)
		}
		if n := len(r.Verdict.FlaggedColumns); n > 0 {
			fmt.Fprintf(c.out, "  flagged columns: %d", n)
		}
		fmt.Fprintln(c.out)
	}
	for _, r := range report.Unencrypted {
		fmt.Fprintf(c.out, "%-30s %s\n", r.Table, color.RedString("NOT ENCRYPTED"))
		if r.Verdict.Err != "" {
			fmt.Fprintf(c.out, "  %s\n", color.YellowString("inspection failed: %s", r.Verdict.Err))
		}
	}
}
