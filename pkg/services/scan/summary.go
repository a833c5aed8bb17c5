package scan

import (
	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
)

// Summarize folds a result sequence into a scan summary. It is a pure
// function of its inputs: no I/O, no hidden state, deterministic output
// for the same results and catalog.
//
// Every result counts toward Total, including NOT_APPLICABLE, which
// lands in no other bucket. Per-severity stats are resolved through the
// catalog; a result whose rule id does not resolve is excluded from the
// severity breakdown rather than miscounted into an existing bucket.
func Summarize(results []domain.Result, cat catalog.Catalog) domain.ScanSummary {
	summary := domain.ScanSummary{
		Total:      len(results),
		BySeverity: make(map[domain.Severity]domain.SeverityStats, len(domain.Severities)),
	}
	for _, sev := range domain.Severities {
		summary.BySeverity[sev] = domain.SeverityStats{}
	}

	for _, res := range results {
		switch res.Status {
		case domain.StatusPass:
			summary.Passed++
		case domain.StatusFail:
			summary.Failed++
		case domain.StatusWarning:
			summary.Warnings++
		case domain.StatusError:
			summary.Errors++
		}

		rule, ok := cat.Find(res.RuleID)
		if !ok {
			continue
		}
		stats, known := summary.BySeverity[rule.Severity]
		if !known {
			// Rule carries a severity outside the four known values;
			// treat it like an unresolved rule.
			continue
		}
		stats.Total++
		if res.Status == domain.StatusFail {
			stats.Failed++
		}
		summary.BySeverity[rule.Severity] = stats
	}

	return summary
}
