package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const (
	ruleRootMFA           = "SEC-IAM-001"
	ruleAccessKeyRotation = "SEC-IAM-002"

	// maxAccessKeyAge is the rotation threshold for IAM access keys.
	maxAccessKeyAge = 90 * 24 * time.Hour
)

// IAMAPI is the slice of the IAM client the checks consume.
type IAMAPI interface {
	GetAccountSummary(ctx context.Context, params *iam.GetAccountSummaryInput, optFns ...func(*iam.Options)) (*iam.GetAccountSummaryOutput, error)
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
}

type IAMChecks struct {
	client IAMAPI
	clock  func() time.Time
}

func NewIAMChecks(client IAMAPI, clock func() time.Time) *IAMChecks {
	if clock == nil {
		clock = time.Now
	}
	return &IAMChecks{client: client, clock: clock}
}

// RootMFA verifies the root account has MFA enabled.
func (c *IAMChecks) RootMFA(ctx context.Context) ([]domain.Result, error) {
	resp, err := c.client.GetAccountSummary(ctx, &iam.GetAccountSummaryInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get account summary: %w", err)
	}

	if resp.SummaryMap["AccountMFAEnabled"] == 1 {
		return []domain.Result{{
			RuleID:     ruleRootMFA,
			Status:     domain.StatusPass,
			ResourceID: "root",
			Details:    "Root account has MFA enabled",
		}}, nil
	}
	return []domain.Result{{
		RuleID:      ruleRootMFA,
		Status:      domain.StatusFail,
		ResourceID:  "root",
		Details:     "Root account does not have MFA enabled",
		Remediation: "Enable MFA for the root account through the AWS Management Console",
	}}, nil
}

// AccessKeyRotation flags IAM access keys older than the rotation
// threshold, one result per key.
func (c *IAMChecks) AccessKeyRotation(ctx context.Context) ([]domain.Result, error) {
	users, err := c.client.ListUsers(ctx, &iam.ListUsersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list IAM users: %w", err)
	}

	now := c.clock()
	var results []domain.Result
	for _, user := range users.Users {
		username := awssdk.ToString(user.UserName)
		keys, err := c.client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
			UserName: user.UserName,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list access keys for %s: %w", username, err)
		}

		for _, key := range keys.AccessKeyMetadata {
			keyID := awssdk.ToString(key.AccessKeyId)
			resourceID := fmt.Sprintf("%s/%s", username, keyID)
			ageDays := int(now.Sub(awssdk.ToTime(key.CreateDate)).Hours() / 24)

			if now.Sub(awssdk.ToTime(key.CreateDate)) > maxAccessKeyAge {
				results = append(results, domain.Result{
					RuleID:      ruleAccessKeyRotation,
					Status:      domain.StatusFail,
					ResourceID:  resourceID,
					Details:     fmt.Sprintf("Access key is %d days old (> 90 days)", ageDays),
					Remediation: fmt.Sprintf("Rotate access key for user %s", username),
				})
			} else {
				results = append(results, domain.Result{
					RuleID:     ruleAccessKeyRotation,
					Status:     domain.StatusPass,
					ResourceID: resourceID,
					Details:    fmt.Sprintf("Access key is %d days old (< 90 days)", ageDays),
				})
			}
		}
	}
	return results, nil
}
