package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

var csvHeader = []string{
	"Rule ID", "Title", "Severity", "Category", "Service",
	"Status", "Resource ID", "Details", "Remediation",
}

// WriteCSV renders the report rows as a CSV table, one row per result.
// It consumes the projected rows as-is and derives nothing itself.
func WriteCSV(w io.Writer, report *domain.ScanReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range report.Rows {
		record := []string{
			row.RuleID,
			row.Title,
			row.Severity,
			row.Category,
			row.Service,
			string(row.Status),
			row.ResourceID,
			row.Details,
			row.Remediation,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}
