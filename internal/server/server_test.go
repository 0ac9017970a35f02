package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/catalog"
	"github.com/dbseal/encscan/internal/logger"
)

type stubReader struct {
	tables []string
	facts  map[string]*catalog.TableFacts
}

func (s *stubReader) ListTables(ctx context.Context) ([]string, error) {
	return s.tables, nil
}

func (s *stubReader) TableFacts(ctx context.Context, table string) (*catalog.TableFacts, error) {
	if f, ok := s.facts[table]; ok {
		return f, nil
	}
	return &catalog.TableFacts{}, nil
}

func (s *stubReader) Columns(ctx context.Context, table string) ([]catalog.Column, error) {
	return nil, nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

func testServer(pingErr error) *Server {
	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})
	reader := &stubReader{
		tables: []string{"vault", "plain"},
		facts: map[string]*catalog.TableFacts{
			"vault": {CreateOptions: "ENCRYPTION='Y'"},
		},
	}
	scanner := audit.NewScanner(reader, log, "localhost", "testdb", 1)
	return New(scanner, &stubPinger{err: pingErr}, log)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(testServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthzUnreachable(t *testing.T) {
	srv := httptest.NewServer(testServer(errors.New("gone")).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestScanJSON(t *testing.T) {
	srv := httptest.NewServer(testServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scan", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep audit.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, 2, rep.TotalTables)
	require.Len(t, rep.Encrypted, 1)
	assert.Equal(t, "vault", rep.Encrypted[0].Table)
}

func TestScanHTML(t *testing.T) {
	srv := httptest.NewServer(testServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scan?format=html", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "vault")
}

func TestScanMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(testServer(nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/scan")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
