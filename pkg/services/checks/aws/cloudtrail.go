package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const ruleCloudTrailEnabled = "SEC-AUDIT-001"

// CloudTrailAPI is the slice of the CloudTrail client the check
// consumes.
type CloudTrailAPI interface {
	DescribeTrails(ctx context.Context, params *cloudtrail.DescribeTrailsInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DescribeTrailsOutput, error)
	GetTrailStatus(ctx context.Context, params *cloudtrail.GetTrailStatusInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.GetTrailStatusOutput, error)
}

type CloudTrailChecks struct {
	client CloudTrailAPI
}

func NewCloudTrailChecks(client CloudTrailAPI) *CloudTrailChecks {
	return &CloudTrailChecks{client: client}
}

// TrailEnabled verifies the account has at least one trail and that
// every configured trail is actively logging.
func (c *CloudTrailChecks) TrailEnabled(ctx context.Context) ([]domain.Result, error) {
	trails, err := c.client.DescribeTrails(ctx, &cloudtrail.DescribeTrailsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe trails: %w", err)
	}

	if len(trails.TrailList) == 0 {
		return []domain.Result{{
			RuleID:      ruleCloudTrailEnabled,
			Status:      domain.StatusFail,
			ResourceID:  "account",
			Details:     "No CloudTrail trails are configured",
			Remediation: "Create a multi-region trail and enable logging",
		}}, nil
	}

	var results []domain.Result
	for _, trail := range trails.TrailList {
		name := awssdk.ToString(trail.Name)
		status, err := c.client.GetTrailStatus(ctx, &cloudtrail.GetTrailStatusInput{
			Name: trail.TrailARN,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get status for trail %s: %w", name, err)
		}

		if awssdk.ToBool(status.IsLogging) {
			results = append(results, domain.Result{
				RuleID:     ruleCloudTrailEnabled,
				Status:     domain.StatusPass,
				ResourceID: name,
				Details:    "Trail is logging",
			})
		} else {
			results = append(results, domain.Result{
				RuleID:      ruleCloudTrailEnabled,
				Status:      domain.StatusFail,
				ResourceID:  name,
				Details:     "Trail exists but logging is stopped",
				Remediation: fmt.Sprintf("Start logging on trail %s", name),
			})
		}
	}
	return results, nil
}
