package scan

import (
	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
)

// UnknownField is the sentinel written into rule-metadata columns when
// a result's rule id does not resolve against the catalog.
const UnknownField = "Unknown"

// Project joins each result with its rule's metadata into the flat row
// shape every exporter consumes. Input order is preserved. Results
// referencing an unknown rule keep their own fields and get the
// "Unknown" sentinel in the metadata columns.
func Project(results []domain.Result, cat catalog.Catalog) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(results))
	for _, res := range results {
		row := domain.ReportRow{
			RuleID:      res.RuleID,
			Title:       UnknownField,
			Severity:    UnknownField,
			Category:    UnknownField,
			Service:     UnknownField,
			Status:      res.Status,
			ResourceID:  res.ResourceID,
			Details:     res.Details,
			Remediation: res.Remediation,
		}
		if rule, ok := cat.Find(res.RuleID); ok {
			row.Title = rule.Title
			row.Severity = string(rule.Severity)
			row.Category = string(rule.Category)
			row.Service = rule.Service
		}
		rows = append(rows, row)
	}
	return rows
}
