package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
)

func testRule(id, check string, sev domain.Severity) domain.Rule {
	return domain.Rule{
		ID:       id,
		Title:    "Rule " + id,
		Severity: sev,
		Category: domain.CategorySecurity,
		Service:  "TEST",
		Check:    check,
	}
}

func staticCheck(results ...domain.Result) Check {
	return func(ctx context.Context) ([]domain.Result, error) {
		return results, nil
	}
}

func TestRunRule_UnresolvedCheck(t *testing.T) {
	cat, err := catalog.New([]domain.Rule{testRule("R-1", "missing_check", domain.SeverityHigh)})
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: NewRegistry()})
	results := s.RunRule(context.Background(), cat.Rules()[0])

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Equal(t, "N/A", results[0].ResourceID)
	assert.Contains(t, results[0].Details, "not implemented")
	assert.Equal(t, "R-1", results[0].RuleID)
}

func TestRunRule_CheckError(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("failing", func(ctx context.Context) ([]domain.Result, error) {
		return []domain.Result{{RuleID: "R-1", Status: domain.StatusPass}}, errors.New("permission denied")
	}))
	cat, err := catalog.New([]domain.Rule{testRule("R-1", "failing", domain.SeverityHigh)})
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: reg})
	results := s.RunRule(context.Background(), cat.Rules()[0])

	// Partial results from a failed invocation are discarded.
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Equal(t, "N/A", results[0].ResourceID)
	assert.Contains(t, results[0].Details, "permission denied")
}

func TestRunRule_CheckPanic(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("panicking", func(ctx context.Context) ([]domain.Result, error) {
		panic("index out of range")
	}))
	cat, err := catalog.New([]domain.Rule{testRule("R-1", "panicking", domain.SeverityLow)})
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: reg})
	results := s.RunRule(context.Background(), cat.Rules()[0])

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Contains(t, results[0].Details, "index out of range")
}

func TestRunRule_Timeout(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("slow", func(ctx context.Context) ([]domain.Result, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	cat, err := catalog.New([]domain.Rule{testRule("R-1", "slow", domain.SeverityMedium)})
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: reg, CheckTimeout: 10 * time.Millisecond})
	results := s.RunRule(context.Background(), cat.Rules()[0])

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Contains(t, results[0].Details, "deadline exceeded")
}

func TestRunAll_EndToEnd(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("one_pass", staticCheck(
		domain.Result{RuleID: "R-1", Status: domain.StatusPass, ResourceID: "res-1"},
	)))
	require.NoError(t, reg.Register("raises", func(ctx context.Context) ([]domain.Result, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, reg.Register("fail_and_warn", staticCheck(
		domain.Result{RuleID: "R-3", Status: domain.StatusFail, ResourceID: "res-3a", Remediation: "fix it"},
		domain.Result{RuleID: "R-3", Status: domain.StatusWarning, ResourceID: "res-3b"},
	)))

	cat, err := catalog.New([]domain.Rule{
		testRule("R-1", "one_pass", domain.SeverityCritical),
		testRule("R-2", "raises", domain.SeverityHigh),
		testRule("R-3", "fail_and_warn", domain.SeverityHigh),
	})
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: reg})
	results, err := s.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.Equal(t, []domain.Status{
		domain.StatusPass, domain.StatusError, domain.StatusFail, domain.StatusWarning,
	}, []domain.Status{results[0].Status, results[1].Status, results[2].Status, results[3].Status})
	assert.Equal(t, []string{"R-1", "R-2", "R-3", "R-3"}, []string{
		results[0].RuleID, results[1].RuleID, results[2].RuleID, results[3].RuleID,
	})

	summary := Summarize(results, cat)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Warnings)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunAll_CatalogOrderParallel(t *testing.T) {
	reg := NewRegistry()
	ids := []string{"A", "B", "C", "D", "E"}
	rules := make([]domain.Rule, 0, len(ids))
	for i, id := range ids {
		i, id := i, id
		check := "check_" + id
		require.NoError(t, reg.Register(check, func(ctx context.Context) ([]domain.Result, error) {
			// Earlier rules sleep longer so completion order inverts
			// catalog order, exercising the re-sort.
			time.Sleep(time.Duration(len(ids)-i) * time.Millisecond)
			return []domain.Result{
				{RuleID: id, Status: domain.StatusPass, ResourceID: id + "/1"},
				{RuleID: id, Status: domain.StatusPass, ResourceID: id + "/2"},
			}, nil
		}))
		rules = append(rules, testRule(id, check, domain.SeverityLow))
	}
	cat, err := catalog.New(rules)
	require.NoError(t, err)

	s := NewScanner(Options{Catalog: cat, Registry: reg, Concurrency: 3})
	results, err := s.RunAll(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 2*len(ids))
	for i, id := range ids {
		assert.Equal(t, id, results[2*i].RuleID)
		assert.Equal(t, id+"/1", results[2*i].ResourceID)
		assert.Equal(t, id+"/2", results[2*i+1].ResourceID)
	}
}

func TestRunAll_Cancellation(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	require.NoError(t, reg.Register("counting", func(ctx context.Context) ([]domain.Result, error) {
		calls++
		return nil, nil
	}))
	cat, err := catalog.New([]domain.Rule{
		testRule("R-1", "counting", domain.SeverityLow),
		testRule("R-2", "counting", domain.SeverityLow),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScanner(Options{Catalog: cat, Registry: reg})
	results, err := s.RunAll(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Zero(t, calls, "no rule should begin once cancellation is signaled")
}

func TestRun_BuildsReport(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("one_pass", staticCheck(
		domain.Result{RuleID: "R-1", Status: domain.StatusPass, ResourceID: "res-1"},
	)))
	cat, err := catalog.New([]domain.Rule{testRule("R-1", "one_pass", domain.SeverityCritical)})
	require.NoError(t, err)

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewScanner(Options{
		Catalog:  cat,
		Registry: reg,
		Region:   "us-gov-west-1",
		Now:      func() time.Time { return fixed },
	})

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "us-gov-west-1", report.Region)
	assert.Equal(t, fixed, report.StartedAt)
	assert.Equal(t, 1, report.Summary.Total)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Rule R-1", report.Rows[0].Title)
}
