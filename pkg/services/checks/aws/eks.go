package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const (
	ruleEKSLogging          = "SEC-EKS-001"
	ruleEKSPrivateEndpoint  = "SEC-EKS-002"
	ruleEKSEncryptionConfig = "FIN-EKS-001"
)

// EKSAPI is the slice of the EKS client the checks consume.
type EKSAPI interface {
	ListClusters(ctx context.Context, params *eks.ListClustersInput, optFns ...func(*eks.Options)) (*eks.ListClustersOutput, error)
	DescribeCluster(ctx context.Context, params *eks.DescribeClusterInput, optFns ...func(*eks.Options)) (*eks.DescribeClusterOutput, error)
}

type EKSChecks struct {
	client EKSAPI
}

func NewEKSChecks(client EKSAPI) *EKSChecks {
	return &EKSChecks{client: client}
}

// forEachCluster runs fn once per cluster description, concatenating
// the per-cluster results. A single API failure fails the whole check;
// the scanner degrades it to one ERROR result at the rule boundary.
func (c *EKSChecks) forEachCluster(
	ctx context.Context,
	fn func(name string, cluster *eks.DescribeClusterOutput) domain.Result,
) ([]domain.Result, error) {
	clusters, err := c.client.ListClusters(ctx, &eks.ListClustersInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list EKS clusters: %w", err)
	}

	var results []domain.Result
	for _, name := range clusters.Clusters {
		desc, err := c.client.DescribeCluster(ctx, &eks.DescribeClusterInput{
			Name: awssdk.String(name),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to describe cluster %s: %w", name, err)
		}
		results = append(results, fn(name, desc))
	}
	return results, nil
}

// ControlPlaneLogging verifies at least one control plane log type is
// enabled on every cluster.
func (c *EKSChecks) ControlPlaneLogging(ctx context.Context) ([]domain.Result, error) {
	return c.forEachCluster(ctx, func(name string, desc *eks.DescribeClusterOutput) domain.Result {
		enabled := false
		if desc.Cluster != nil && desc.Cluster.Logging != nil {
			for _, setup := range desc.Cluster.Logging.ClusterLogging {
				if awssdk.ToBool(setup.Enabled) && len(setup.Types) > 0 {
					enabled = true
					break
				}
			}
		}
		if enabled {
			return domain.Result{
				RuleID:     ruleEKSLogging,
				Status:     domain.StatusPass,
				ResourceID: name,
				Details:    "Control plane logging is enabled",
			}
		}
		return domain.Result{
			RuleID:      ruleEKSLogging,
			Status:      domain.StatusFail,
			ResourceID:  name,
			Details:     "Control plane logging is disabled",
			Remediation: fmt.Sprintf("Enable control plane logging (audit at minimum) on cluster %s", name),
		}
	})
}

// PrivateEndpoint verifies the cluster API endpoint allows private
// access and is not exposed publicly.
func (c *EKSChecks) PrivateEndpoint(ctx context.Context) ([]domain.Result, error) {
	return c.forEachCluster(ctx, func(name string, desc *eks.DescribeClusterOutput) domain.Result {
		vpcCfg := desc.Cluster.ResourcesVpcConfig
		if vpcCfg != nil && vpcCfg.EndpointPrivateAccess && !vpcCfg.EndpointPublicAccess {
			return domain.Result{
				RuleID:     ruleEKSPrivateEndpoint,
				Status:     domain.StatusPass,
				ResourceID: name,
				Details:    "Cluster endpoint is private only",
			}
		}
		return domain.Result{
			RuleID:      ruleEKSPrivateEndpoint,
			Status:      domain.StatusFail,
			ResourceID:  name,
			Details:     "Cluster endpoint allows public access",
			Remediation: fmt.Sprintf("Restrict cluster %s to private endpoint access", name),
		}
	})
}

// EncryptionConfig verifies the cluster defines an envelope encryption
// config covering its workloads.
func (c *EKSChecks) EncryptionConfig(ctx context.Context) ([]domain.Result, error) {
	return c.forEachCluster(ctx, func(name string, desc *eks.DescribeClusterOutput) domain.Result {
		if desc.Cluster != nil && len(desc.Cluster.EncryptionConfig) > 0 {
			return domain.Result{
				RuleID:     ruleEKSEncryptionConfig,
				Status:     domain.StatusPass,
				ResourceID: name,
				Details:    "Cluster defines an encryption config",
			}
		}
		return domain.Result{
			RuleID:      ruleEKSEncryptionConfig,
			Status:      domain.StatusFail,
			ResourceID:  name,
			Details:     "Cluster has no encryption config",
			Remediation: fmt.Sprintf("Configure KMS envelope encryption for cluster %s", name),
		}
	})
}
