package scans

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/de-tools/compliance-atlas/pkg/models/api"
	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
	"github.com/de-tools/compliance-atlas/pkg/services/config"
	"github.com/de-tools/compliance-atlas/pkg/services/scan"
	scanstore "github.com/de-tools/compliance-atlas/pkg/store/duckdb/scans"
)

type Handler struct {
	factory  scan.Factory
	settings config.Settings
	store    scanstore.Store
}

func NewHandler(factory scan.Factory, settings config.Settings, store scanstore.Store) *Handler {
	return &Handler{
		factory:  factory,
		settings: settings,
		store:    store,
	}
}

// ListRules returns the active rule catalog.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	rules := catalog.Without(catalog.DefaultRules(), h.settings.DisabledRules)
	response := make([]api.Rule, 0, len(rules))
	for _, rule := range rules {
		response = append(response, api.Rule{
			ID:          rule.ID,
			Title:       rule.Title,
			Description: rule.Description,
			Severity:    string(rule.Severity),
			Category:    string(rule.Category),
			Service:     rule.Service,
		})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode rules")
	}
}

// RunScan executes the full catalog against the configured region. The
// region can be overridden per request; "persist=true" records the
// completed report in scan history.
func (h *Handler) RunScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	settings := h.settings
	if region := r.URL.Query().Get("region"); region != "" {
		settings.Region = region
	}

	scanner, err := h.factory(ctx, settings)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build scanner")
		http.Error(w, "failed to initialize scan", http.StatusInternalServerError)
		return
	}

	report, err := scanner.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("scan failed")
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("persist") == "true" {
		if _, err := h.store.SaveScan(ctx, report); err != nil {
			// Persistence is best-effort; the report is still returned.
			logger.Error().Err(err).Msg("failed to persist scan")
		}
	}

	if err := json.NewEncoder(w).Encode(toAPIReport(report)); err != nil {
		logger.Error().Err(err).Msg("failed to encode scan report")
	}
}

// ListScans returns the persisted scan history, newest first.
func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	records, err := h.store.ListScans(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list scans")
		http.Error(w, "failed to list scans", http.StatusInternalServerError)
		return
	}

	response := make([]api.ScanRecord, 0, len(records))
	for _, rec := range records {
		response = append(response, api.ScanRecord{
			ID:         rec.ID,
			Region:     rec.Region,
			StartedAt:  rec.StartedAt,
			FinishedAt: rec.FinishedAt,
			Summary:    toAPISummary(rec.Summary),
		})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode scan history")
	}
}

func toAPISummary(summary domain.ScanSummary) api.ScanSummary {
	out := api.ScanSummary{
		Total:      summary.Total,
		Passed:     summary.Passed,
		Failed:     summary.Failed,
		Warnings:   summary.Warnings,
		Errors:     summary.Errors,
		BySeverity: make(map[string]api.SeverityStats, len(summary.BySeverity)),
	}
	for sev, stats := range summary.BySeverity {
		out.BySeverity[string(sev)] = api.SeverityStats{
			Total:  stats.Total,
			Failed: stats.Failed,
		}
	}
	return out
}

func toAPIReport(report *domain.ScanReport) api.ScanReport {
	out := api.ScanReport{
		Region:     report.Region,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Summary:    toAPISummary(report.Summary),
		Rows:       make([]api.ReportRow, 0, len(report.Rows)),
	}
	for _, row := range report.Rows {
		out.Rows = append(out.Rows, api.ReportRow{
			RuleID:      row.RuleID,
			Title:       row.Title,
			Severity:    row.Severity,
			Category:    row.Category,
			Service:     row.Service,
			Status:      string(row.Status),
			ResourceID:  row.ResourceID,
			Details:     row.Details,
			Remediation: row.Remediation,
		})
	}
	return out
}
