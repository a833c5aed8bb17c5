package api

import "time"

type Rule struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Service     string `json:"service"`
}

type SeverityStats struct {
	Total  int `json:"total"`
	Failed int `json:"failed"`
}

type ScanSummary struct {
	Total      int                      `json:"total_checks"`
	Passed     int                      `json:"passed"`
	Failed     int                      `json:"failed"`
	Warnings   int                      `json:"warnings"`
	Errors     int                      `json:"errors"`
	BySeverity map[string]SeverityStats `json:"by_severity"`
}

type ReportRow struct {
	RuleID      string `json:"rule_id"`
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Service     string `json:"service"`
	Status      string `json:"status"`
	ResourceID  string `json:"resource_id"`
	Details     string `json:"details"`
	Remediation string `json:"remediation,omitempty"`
}

type ScanReport struct {
	Region     string      `json:"region"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Summary    ScanSummary `json:"summary"`
	Rows       []ReportRow `json:"results"`
}

type ScanRecord struct {
	ID         string      `json:"id"`
	Region     string      `json:"region"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Summary    ScanSummary `json:"summary"`
}
