package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const (
	ruleCostGrowth = "COST-CE-001"

	// spendGrowthThreshold is the month-over-month growth ratio above
	// which the account spend is flagged.
	spendGrowthThreshold = 1.2
)

// CostExplorerAPI is the slice of the Cost Explorer client the check
// consumes.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

type BillingChecks struct {
	client CostExplorerAPI
	clock  func() time.Time
}

func NewBillingChecks(client CostExplorerAPI, clock func() time.Time) *BillingChecks {
	if clock == nil {
		clock = time.Now
	}
	return &BillingChecks{client: client, clock: clock}
}

// SpendGrowth compares the two most recent complete months of account
// spend and emits a WARNING when growth exceeds the threshold. Spend
// growth is advisory, not a failure: nothing is out of compliance, it
// just deserves a look.
func (c *BillingChecks) SpendGrowth(ctx context.Context) ([]domain.Result, error) {
	now := c.clock().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := currentMonth.AddDate(0, -2, 0)

	resp, err := c.client.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: awssdk.String(start.Format("2006-01-02")),
			End:   awssdk.String(currentMonth.Format("2006-01-02")),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cost and usage: %w", err)
	}

	if len(resp.ResultsByTime) < 2 {
		return []domain.Result{{
			RuleID:     ruleCostGrowth,
			Status:     domain.StatusNotApplicable,
			ResourceID: "account",
			Details:    "Not enough billing history to compare month-over-month spend",
		}}, nil
	}

	previous, err := monthlySpend(resp.ResultsByTime[0])
	if err != nil {
		return nil, err
	}
	current, err := monthlySpend(resp.ResultsByTime[1])
	if err != nil {
		return nil, err
	}

	if previous > 0 && current > previous*spendGrowthThreshold {
		growth := (current/previous - 1) * 100
		return []domain.Result{{
			RuleID:      ruleCostGrowth,
			Status:      domain.StatusWarning,
			ResourceID:  "account",
			Details:     fmt.Sprintf("Spend grew %.1f%% month-over-month (%.2f -> %.2f USD)", growth, previous, current),
			Remediation: "Review Cost Explorer for unexpected usage before the trend compounds",
		}}, nil
	}

	return []domain.Result{{
		RuleID:     ruleCostGrowth,
		Status:     domain.StatusPass,
		ResourceID: "account",
		Details:    fmt.Sprintf("Spend within expected range (%.2f -> %.2f USD)", previous, current),
	}}, nil
}

func monthlySpend(result types.ResultByTime) (float64, error) {
	metric, ok := result.Total["UnblendedCost"]
	if !ok {
		return 0, fmt.Errorf("cost result has no UnblendedCost metric")
	}
	amount, err := strconv.ParseFloat(awssdk.ToString(metric.Amount), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cost amount %q: %w", awssdk.ToString(metric.Amount), err)
	}
	return amount, nil
}
