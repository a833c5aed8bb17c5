package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
)

func TestSummarize(t *testing.T) {
	cat, err := catalog.New([]domain.Rule{
		testRule("CRIT-1", "c1", domain.SeverityCritical),
		testRule("HIGH-1", "c2", domain.SeverityHigh),
		testRule("LOW-1", "c3", domain.SeverityLow),
	})
	require.NoError(t, err)

	results := []domain.Result{
		{RuleID: "CRIT-1", Status: domain.StatusFail},
		{RuleID: "CRIT-1", Status: domain.StatusPass},
		{RuleID: "HIGH-1", Status: domain.StatusWarning},
		{RuleID: "LOW-1", Status: domain.StatusNotApplicable},
		{RuleID: "GONE-1", Status: domain.StatusFail}, // rule no longer in catalog
		{RuleID: "HIGH-1", Status: domain.StatusError},
	}

	t.Run("global counters", func(t *testing.T) {
		summary := Summarize(results, cat)

		assert.Equal(t, len(results), summary.Total)
		assert.Equal(t, 1, summary.Passed)
		assert.Equal(t, 2, summary.Failed)
		assert.Equal(t, 1, summary.Warnings)
		assert.Equal(t, 1, summary.Errors)
		// NOT_APPLICABLE counts toward total only.
		assert.Equal(t, summary.Total,
			summary.Passed+summary.Failed+summary.Warnings+summary.Errors+2)
	})

	t.Run("severity breakdown excludes unresolved rules", func(t *testing.T) {
		summary := Summarize(results, cat)

		assert.Equal(t, domain.SeverityStats{Total: 2, Failed: 1}, summary.BySeverity[domain.SeverityCritical])
		assert.Equal(t, domain.SeverityStats{Total: 2, Failed: 0}, summary.BySeverity[domain.SeverityHigh])
		assert.Equal(t, domain.SeverityStats{Total: 1, Failed: 0}, summary.BySeverity[domain.SeverityLow])
		assert.Equal(t, domain.SeverityStats{}, summary.BySeverity[domain.SeverityMedium])

		perSeverity := 0
		for _, stats := range summary.BySeverity {
			perSeverity += stats.Total
		}
		// The GONE-1 result is excluded from every bucket.
		assert.Equal(t, len(results)-1, perSeverity)
	})

	t.Run("deterministic and idempotent", func(t *testing.T) {
		first := Summarize(results, cat)
		second := Summarize(results, cat)
		assert.Equal(t, first, second)
	})

	t.Run("empty input", func(t *testing.T) {
		summary := Summarize(nil, cat)
		assert.Zero(t, summary.Total)
		assert.Len(t, summary.BySeverity, len(domain.Severities))
	})
}
