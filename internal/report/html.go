package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/errs"
)

const htmlDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: sans-serif; margin: 2em; color: #222; }
  h1 { font-size: 1.3em; }
  table { border-collapse: collapse; margin-top: 1em; }
  th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
  th { background: #f0f0f0; }
  .enc { color: #1a7f37; font-weight: bold; }
  .plain { color: #b42318; font-weight: bold; }
  .err { color: #b42318; font-style: italic; }
</style>
</head>
<body>
<h1>Encryption scan — {{.Report.Database}} @ {{.Report.Host}}</h1>
<p>
  Scan {{.Report.ID}} finished {{.Report.FinishedAt.Format "2006-01-02 15:04:05 MST"}}.<br>
  Total tables: {{.Report.TotalTables}} —
  encrypted: {{len .Report.Encrypted}},
  unencrypted: {{len .Report.Unencrypted}}{{if .HasRate}},
  rate: {{.RatePct}}{{end}}.
</p>
<table>
<tr><th>Table</th><th>Status</th><th>Scope</th><th>Algorithm</th><th>Flagged columns</th></tr>
{{range .Rows}}
<tr>
  <td>{{.Table}}</td>
  {{if .Verdict.Encrypted}}<td class="enc">ENCRYPTED</td>{{else}}<td class="plain">NOT ENCRYPTED</td>{{end}}
  <td>{{.Verdict.Scope}}</td>
  <td>{{.Verdict.Algorithm}}</td>
  <td>{{len .Verdict.FlaggedColumns}}{{if .Verdict.Err}} <span class="err">({{.Verdict.Err}})</span>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`

var htmlTmpl = template.Must(template.New("report").Parse(htmlDocument))

// HTML renders the report as a standalone document suitable for mailing.
type HTML struct{}

// Render produces the HTML document. Tables are listed encrypted bucket
// first, each bucket in enumeration order.
func (HTML) Render(report *audit.Report) ([]byte, error) {
	rows := make([]audit.TableResult, 0, report.TotalTables)
	rows = append(rows, report.Encrypted...)
	rows = append(rows, report.Unencrypted...)

	rate, ok := report.Rate()
	data := struct {
		Report  *audit.Report
		Rows    []audit.TableResult
		HasRate bool
		RatePct string
	}{
		Report:  report,
		Rows:    rows,
		HasRate: ok,
		RatePct: fmt.Sprintf("%.1f%%", rate*100),
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return nil, errs.Wrap(errs.ErrKindPersistence, "cannot render html report", err)
	}
	return buf.Bytes(), nil
}
