package domain

import "time"

// SeverityStats holds the per-severity slice of a scan summary.
type SeverityStats struct {
	Total  int
	Failed int
}

// ScanSummary is the aggregate view of one completed scan. It is a pure
// function of the result sequence and the catalog it was computed from.
type ScanSummary struct {
	Total    int
	Passed   int
	Failed   int
	Warnings int
	Errors   int
	// BySeverity carries {total, failed} for each of the four known
	// severities. Results whose rule cannot be resolved are excluded.
	BySeverity map[Severity]SeverityStats
}

// ReportRow is the flattened projection of one Result joined with its
// rule's metadata. Metadata fields hold the "Unknown" sentinel when the
// rule id does not resolve against the catalog.
type ReportRow struct {
	RuleID      string
	Title       string
	Severity    string
	Category    string
	Service     string
	Status      Status
	ResourceID  string
	Details     string
	Remediation string
}

// ScanReport is the complete output of one scan run: the summary plus
// one row per result. Exporters consume this shape as-is and must not
// re-derive any of the counts.
type ScanReport struct {
	Region     string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    ScanSummary
	Rows       []ReportRow
}
