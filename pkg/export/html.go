package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const htmlReport = `<!DOCTYPE html>
<html>
<head>
    <title>AWS Security Compliance Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #1a5276; }
        .summary { margin-bottom: 20px; }
        table { border-collapse: collapse; width: 100%; margin-top: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        .PASS { background-color: #dff0d8; }
        .FAIL { background-color: #f2dede; }
        .WARNING { background-color: #fcf8e3; }
        .ERROR { background-color: #f5f5f5; }
        .CRITICAL { color: #d9534f; font-weight: bold; }
        .HIGH { color: #f0ad4e; font-weight: bold; }
        .MEDIUM { color: #5bc0de; }
        .LOW { color: #5cb85c; }
    </style>
</head>
<body>
    <h1>AWS Security Compliance Report</h1>
    <div class="summary">
        <h2>Summary</h2>
        <p>
            <strong>Region:</strong> {{.Region}}<br>
            <strong>Total Checks:</strong> {{.Summary.Total}}<br>
            <strong>Passed:</strong> {{.Summary.Passed}}<br>
            <strong>Failed:</strong> {{.Summary.Failed}}<br>
            <strong>Warnings:</strong> {{.Summary.Warnings}}<br>
            <strong>Errors:</strong> {{.Summary.Errors}}
        </p>
        <h2>By Severity</h2>
        <table>
            <tr><th>Severity</th><th>Total</th><th>Failed</th></tr>
            {{range $sev := severities}}{{with index $.Summary.BySeverity $sev}}
            <tr><td class="{{$sev}}">{{$sev}}</td><td>{{.Total}}</td><td>{{.Failed}}</td></tr>
            {{end}}{{end}}
        </table>
    </div>

    <h2>Detailed Results</h2>
    <table>
        <tr>
            <th>Rule ID</th>
            <th>Title</th>
            <th>Severity</th>
            <th>Category</th>
            <th>Service</th>
            <th>Status</th>
            <th>Resource ID</th>
            <th>Details</th>
            <th>Remediation</th>
        </tr>
        {{range .Rows}}
        <tr class="{{.Status}}">
            <td>{{.RuleID}}</td>
            <td>{{.Title}}</td>
            <td class="{{.Severity}}">{{.Severity}}</td>
            <td>{{.Category}}</td>
            <td>{{.Service}}</td>
            <td>{{.Status}}</td>
            <td>{{.ResourceID}}</td>
            <td>{{.Details}}</td>
            <td>{{.Remediation}}</td>
        </tr>
        {{end}}
    </table>
</body>
</html>
`

// WriteHTML renders the full scan report as a standalone HTML document:
// the five global counts, the per-severity table, and one detail row
// per result. Counts come straight from the summary.
func WriteHTML(w io.Writer, report *domain.ScanReport) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"severities": func() []domain.Severity { return domain.Severities },
	}).Parse(htmlReport)
	if err != nil {
		return fmt.Errorf("failed to parse HTML report template: %w", err)
	}

	if err := tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
