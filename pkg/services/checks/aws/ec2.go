package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const (
	ruleDefaultSecurityGroups = "SEC-VPC-001"
	ruleVPCFlowLogs           = "FIN-NET-001"
	ruleRequiredTags          = "FIN-TAG-001"
)

// RequiredTagKeys are the tags every instance must carry for financial
// compliance attribution.
var RequiredTagKeys = []string{"Owner", "CostCenter", "DataClassification"}

// EC2API is the slice of the EC2 client the checks consume.
type EC2API interface {
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	DescribeFlowLogs(ctx context.Context, params *ec2.DescribeFlowLogsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeFlowLogsOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

type EC2Checks struct {
	client EC2API
}

func NewEC2Checks(client EC2API) *EC2Checks {
	return &EC2Checks{client: client}
}

// DefaultSecurityGroups verifies the default security group of every
// VPC restricts all inbound and outbound traffic. Each direction is
// evaluated separately, matching how drift is usually remediated.
func (c *EC2Checks) DefaultSecurityGroups(ctx context.Context) ([]domain.Result, error) {
	vpcs, err := c.client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs: %w", err)
	}

	var results []domain.Result
	for _, vpc := range vpcs.Vpcs {
		vpcID := awssdk.ToString(vpc.VpcId)
		groups, err := c.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
			Filters: []types.Filter{
				{Name: awssdk.String("vpc-id"), Values: []string{vpcID}},
				{Name: awssdk.String("group-name"), Values: []string{"default"}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe security groups for %s: %w", vpcID, err)
		}
		if len(groups.SecurityGroups) == 0 {
			continue
		}

		sg := groups.SecurityGroups[0]
		sgID := awssdk.ToString(sg.GroupId)

		if len(sg.IpPermissions) > 0 {
			results = append(results, domain.Result{
				RuleID:      ruleDefaultSecurityGroups,
				Status:      domain.StatusFail,
				ResourceID:  sgID,
				Details:     fmt.Sprintf("Default security group for VPC %s allows inbound traffic", vpcID),
				Remediation: "Remove all inbound rules from the default security group",
			})
		} else {
			results = append(results, domain.Result{
				RuleID:     ruleDefaultSecurityGroups,
				Status:     domain.StatusPass,
				ResourceID: sgID,
				Details:    fmt.Sprintf("Default security group for VPC %s restricts inbound traffic", vpcID),
			})
		}

		if len(sg.IpPermissionsEgress) > 0 {
			results = append(results, domain.Result{
				RuleID:      ruleDefaultSecurityGroups,
				Status:      domain.StatusFail,
				ResourceID:  sgID,
				Details:     fmt.Sprintf("Default security group for VPC %s allows outbound traffic", vpcID),
				Remediation: "Remove all outbound rules from the default security group",
			})
		} else {
			results = append(results, domain.Result{
				RuleID:     ruleDefaultSecurityGroups,
				Status:     domain.StatusPass,
				ResourceID: sgID,
				Details:    fmt.Sprintf("Default security group for VPC %s restricts outbound traffic", vpcID),
			})
		}
	}
	return results, nil
}

// VPCFlowLogs verifies every VPC has at least one flow log configured.
func (c *EC2Checks) VPCFlowLogs(ctx context.Context) ([]domain.Result, error) {
	vpcs, err := c.client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs: %w", err)
	}

	var results []domain.Result
	for _, vpc := range vpcs.Vpcs {
		vpcID := awssdk.ToString(vpc.VpcId)
		flowLogs, err := c.client.DescribeFlowLogs(ctx, &ec2.DescribeFlowLogsInput{
			Filter: []types.Filter{
				{Name: awssdk.String("resource-id"), Values: []string{vpcID}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe flow logs for %s: %w", vpcID, err)
		}

		if len(flowLogs.FlowLogs) == 0 {
			results = append(results, domain.Result{
				RuleID:      ruleVPCFlowLogs,
				Status:      domain.StatusFail,
				ResourceID:  vpcID,
				Details:     fmt.Sprintf("VPC %s has no flow logs configured", vpcID),
				Remediation: fmt.Sprintf("Enable flow logs for VPC %s to retain network audit trails", vpcID),
			})
		} else {
			results = append(results, domain.Result{
				RuleID:     ruleVPCFlowLogs,
				Status:     domain.StatusPass,
				ResourceID: vpcID,
				Details:    fmt.Sprintf("VPC %s has %d flow log(s) configured", vpcID, len(flowLogs.FlowLogs)),
			})
		}
	}
	return results, nil
}

// RequiredTags verifies every running instance carries the required
// compliance tags.
func (c *EC2Checks) RequiredTags(ctx context.Context) ([]domain.Result, error) {
	instances, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{Name: awssdk.String("instance-state-name"), Values: []string{"running"}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}

	var results []domain.Result
	for _, reservation := range instances.Reservations {
		for _, instance := range reservation.Instances {
			instanceID := awssdk.ToString(instance.InstanceId)

			present := make(map[string]bool, len(instance.Tags))
			for _, tag := range instance.Tags {
				present[awssdk.ToString(tag.Key)] = true
			}

			var missing []string
			for _, key := range RequiredTagKeys {
				if !present[key] {
					missing = append(missing, key)
				}
			}

			if len(missing) > 0 {
				results = append(results, domain.Result{
					RuleID:      ruleRequiredTags,
					Status:      domain.StatusFail,
					ResourceID:  instanceID,
					Details:     fmt.Sprintf("Instance is missing required tags: %s", strings.Join(missing, ", ")),
					Remediation: fmt.Sprintf("Add the missing tags (%s) to instance %s", strings.Join(missing, ", "), instanceID),
				})
			} else {
				results = append(results, domain.Result{
					RuleID:     ruleRequiredTags,
					Status:     domain.StatusPass,
					ResourceID: instanceID,
					Details:    "All required tags are present",
				})
			}
		}
	}
	return results, nil
}
