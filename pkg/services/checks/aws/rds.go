package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const ruleRDSEncryption = "SEC-RDS-001"

// RDSAPI is the slice of the RDS client the check consumes.
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

type RDSChecks struct {
	client RDSAPI
}

func NewRDSChecks(client RDSAPI) *RDSChecks {
	return &RDSChecks{client: client}
}

// StorageEncryption verifies every RDS instance has storage encryption
// enabled, one result per instance.
func (c *RDSChecks) StorageEncryption(ctx context.Context) ([]domain.Result, error) {
	instances, err := c.client.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe DB instances: %w", err)
	}

	var results []domain.Result
	for _, db := range instances.DBInstances {
		id := awssdk.ToString(db.DBInstanceIdentifier)
		if awssdk.ToBool(db.StorageEncrypted) {
			results = append(results, domain.Result{
				RuleID:     ruleRDSEncryption,
				Status:     domain.StatusPass,
				ResourceID: id,
				Details:    "Storage encryption is enabled",
			})
		} else {
			results = append(results, domain.Result{
				RuleID:      ruleRDSEncryption,
				Status:      domain.StatusFail,
				ResourceID:  id,
				Details:     "Storage encryption is disabled",
				Remediation: fmt.Sprintf("Recreate instance %s from an encrypted snapshot", id),
			})
		}
	}
	return results, nil
}
