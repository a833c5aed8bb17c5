package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

type TableConfig struct {
	RuleWidth     int
	SeverityWidth int
	StatusWidth   int
	ResourceWidth int
	DetailsWidth  int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RuleWidth:     12,
		SeverityWidth: 10,
		StatusWidth:   8,
		ResourceWidth: 30,
		DetailsWidth:  60,
	}
}

// Reporter renders a scan report as console tables: the global counts,
// the per-severity breakdown, and one row per finding that needs
// attention (everything except PASS).
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.ScanReport) error {
	funcMap := template.FuncMap{
		"formatRow": func(rule, severity, status, resource, details string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s | %-*s |",
				c.config.RuleWidth, rule,
				c.config.SeverityWidth, severity,
				c.config.StatusWidth, status,
				c.config.ResourceWidth, truncate(resource, c.config.ResourceWidth),
				c.config.DetailsWidth, truncate(details, c.config.DetailsWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.RuleWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.ResourceWidth+2),
				strings.Repeat("-", c.config.DetailsWidth+2))
		},
		"severities": func() []domain.Severity { return domain.Severities },
		"findings": func() []domain.ReportRow {
			var rows []domain.ReportRow
			for _, row := range report.Rows {
				if row.Status != domain.StatusPass {
					rows = append(rows, row)
				}
			}
			return rows
		},
	}

	tmpl := `
Compliance Scan Report ({{.Region}})

Scanned: {{.StartedAt.Format "2006-01-02 15:04:05"}} to {{.FinishedAt.Format "2006-01-02 15:04:05"}}

Total Checks: {{.Summary.Total}}
Passed:       {{.Summary.Passed}}
Failed:       {{.Summary.Failed}}
Warnings:     {{.Summary.Warnings}}
Errors:       {{.Summary.Errors}}

By Severity:
{{range $sev := severities}}{{with index $.Summary.BySeverity $sev}}  {{printf "%-10s" $sev}} total={{.Total}} failed={{.Failed}}
{{end}}{{end}}
{{if findings}}Findings:

{{separator}}
{{formatRow "Rule" "Severity" "Status" "Resource" "Details"}}
{{separator}}
{{range findings}}{{formatRow .RuleID .Severity (printf "%s" .Status) .ResourceID .Details}}
{{end}}{{separator}}
{{else}}No findings. All checks passed.
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
