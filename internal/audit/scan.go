package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbseal/encscan/internal/catalog"
	"github.com/dbseal/encscan/internal/logger"
)

// Scanner drives the catalog reader and classifier over every table in the
// target database and folds the verdicts into a Report.
type Scanner struct {
	reader   catalog.Reader
	log      *logger.Logger
	host     string
	database string
	workers  int
}

// NewScanner creates a Scanner. workers bounds per-table concurrency;
// values below 1 mean sequential scanning.
func NewScanner(reader catalog.Reader, log *logger.Logger, host, database string, workers int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		reader:   reader,
		log:      log,
		host:     host,
		database: database,
		workers:  workers,
	}
}

// Run scans every table and returns the database-wide report.
//
// Failing to enumerate tables is fatal: nothing can be scanned. A failed
// catalog read for an individual table is not — the table gets a verdict
// carrying the error and counts as unencrypted, since inability to prove
// encryption is treated as absence of it.
//
// Zero tables yields an empty report, not an error. Bucket ordering always
// follows the enumeration order even when scanning runs concurrently.
func (s *Scanner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:        uuid.NewString(),
		Host:      s.host,
		Database:  s.database,
		StartedAt: time.Now().UTC(),
	}

	tables, err := s.reader.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	s.log.Infof("scanning database %q: %d table(s)", s.database, len(tables))

	verdicts := make([]Verdict, len(tables))
	if s.workers == 1 {
		for i, table := range tables {
			s.log.Debugf("[%d/%d] scanning table %s", i+1, len(tables), table)
			verdicts[i] = s.auditTable(ctx, table)
		}
	} else {
		s.auditConcurrently(ctx, tables, verdicts)
	}

	for i, table := range tables {
		result := TableResult{Table: table, Verdict: verdicts[i]}
		if verdicts[i].Encrypted {
			report.Encrypted = append(report.Encrypted, result)
		} else {
			report.Unencrypted = append(report.Unencrypted, result)
		}
	}

	report.TotalTables = len(tables)
	report.FinishedAt = time.Now().UTC()
	return report, nil
}

// auditConcurrently fans per-table audits out to a bounded worker pool.
// Each worker writes into its own index slot, so no result ever moves out
// of enumeration order.
func (s *Scanner) auditConcurrently(ctx context.Context, tables []string, verdicts []Verdict) {
	indexes := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				verdicts[i] = s.auditTable(ctx, tables[i])
			}
		}()
	}

	for i := range tables {
		select {
		case indexes <- i:
		case <-ctx.Done():
			verdicts[i] = Verdict{Scope: ScopeNone, Err: ctx.Err().Error()}
		}
	}
	close(indexes)
	wg.Wait()
}

// auditTable fetches one table's catalog facts and classifies them.
// Any read failure produces a conservative unencrypted verdict with the
// error recorded on it.
func (s *Scanner) auditTable(ctx context.Context, table string) Verdict {
	facts, err := s.reader.TableFacts(ctx, table)
	if err != nil {
		s.log.ErrorWith("failed to read table facts", err, map[string]interface{}{"table": table})
		return Verdict{Scope: ScopeNone, Err: err.Error()}
	}

	cols, err := s.reader.Columns(ctx, table)
	if err != nil {
		s.log.ErrorWith("failed to read columns", err, map[string]interface{}{"table": table})
		return Verdict{Scope: ScopeNone, Err: err.Error()}
	}

	return Classify(facts.CreateOptions, facts.CreateStatement, cols)
}
