package scans

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/store/duckdb"
)

// Record is one persisted scan run: identity, window, and the summary
// counters. Detail rows live in scan_results keyed by the scan id.
type Record struct {
	ID         string
	Region     string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    domain.ScanSummary
}

// Store persists completed scan reports. Persistence is an explicit
// export step: the scanner itself never touches it.
type Store interface {
	SaveScan(ctx context.Context, report *domain.ScanReport) (string, error)
	ListScans(ctx context.Context) ([]Record, error)
}

type scanStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &scanStore{db: db}, nil
}

// SaveScan writes the summary row and one detail row per report row in
// a single transaction, returning the generated scan id.
func (s *scanStore) SaveScan(ctx context.Context, report *domain.ScanReport) (string, error) {
	id := fmt.Sprintf("scan-%s", report.StartedAt.UTC().Format("20060102T150405.000000000Z"))

	tx := duckdb.GetTransaction(ctx)
	ownTx := tx == nil
	if ownTx {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return "", fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO scans (id, region, started_at, finished_at, total, passed, failed, warnings, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		report.Region,
		report.StartedAt,
		report.FinishedAt,
		report.Summary.Total,
		report.Summary.Passed,
		report.Summary.Failed,
		report.Summary.Warnings,
		report.Summary.Errors,
	)
	if err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scan_results (scan_id, rule_id, title, severity, category, service, status, resource_id, details, remediation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range report.Rows {
		_, err = stmt.ExecContext(ctx,
			id,
			row.RuleID,
			row.Title,
			row.Severity,
			row.Category,
			row.Service,
			string(row.Status),
			row.ResourceID,
			row.Details,
			row.Remediation,
		)
		if err != nil {
			return "", fmt.Errorf("insert scan result: %w", err)
		}
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit transaction: %w", err)
		}
	}
	return id, nil
}

func (s *scanStore) ListScans(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, region, started_at, finished_at, total, passed, failed, warnings, errors
		FROM scans
		ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		err := rows.Scan(
			&r.ID,
			&r.Region,
			&r.StartedAt,
			&r.FinishedAt,
			&r.Summary.Total,
			&r.Summary.Passed,
			&r.Summary.Failed,
			&r.Summary.Warnings,
			&r.Summary.Errors,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return records, nil
}
