package catalog

import "github.com/de-tools/compliance-atlas/pkg/models/domain"

// Check names the default rules bind to. Registration happens at
// wiring time; a rule may reference a check that is not registered yet,
// which the scanner reports as an ERROR result rather than failing.
const (
	CheckRootMFA               = "check_root_mfa"
	CheckAccessKeyRotation     = "check_access_key_rotation"
	CheckDefaultSecurityGroups = "check_default_security_groups"
	CheckEKSLogging            = "check_eks_logging"
	CheckEKSPrivateEndpoint    = "check_eks_private_endpoint"
	CheckS3PublicAccess        = "check_s3_public_access"
	CheckS3Encryption          = "check_s3_encryption"
	CheckCloudTrailEnabled     = "check_cloudtrail_enabled"
	CheckEKSNodeEncryption     = "check_eks_node_encryption"
	CheckVPCFlowLogs           = "check_vpc_flow_logs"
	CheckRequiredTags          = "check_required_tags"
	CheckRDSEncryption         = "check_rds_encryption"
	CheckCostGrowth            = "check_cost_growth"
)

// DefaultRules returns the built-in AWS rule table in scan order.
func DefaultRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:          "SEC-IAM-001",
			Title:       "IAM Root Account MFA",
			Description: "Checks if the root account has MFA enabled",
			Severity:    domain.SeverityCritical,
			Category:    domain.CategorySecurity,
			Service:     "IAM",
			Check:       CheckRootMFA,
		},
		{
			ID:          "SEC-IAM-002",
			Title:       "IAM Access Keys Rotation",
			Description: "Checks if IAM access keys are rotated within 90 days",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "IAM",
			Check:       CheckAccessKeyRotation,
		},
		{
			ID:          "SEC-VPC-001",
			Title:       "Default Security Group Restricts All Traffic",
			Description: "Checks if default security groups restrict all inbound and outbound traffic",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "VPC",
			Check:       CheckDefaultSecurityGroups,
		},
		{
			ID:          "SEC-EKS-001",
			Title:       "EKS Control Plane Logging Enabled",
			Description: "Checks if EKS control plane logging is enabled",
			Severity:    domain.SeverityMedium,
			Category:    domain.CategorySecurity,
			Service:     "EKS",
			Check:       CheckEKSLogging,
		},
		{
			ID:          "SEC-EKS-002",
			Title:       "EKS Cluster Private Endpoint",
			Description: "Checks if EKS cluster has private endpoint enabled",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "EKS",
			Check:       CheckEKSPrivateEndpoint,
		},
		{
			ID:          "SEC-S3-001",
			Title:       "S3 Buckets Block Public Access",
			Description: "Checks if S3 buckets block public access",
			Severity:    domain.SeverityCritical,
			Category:    domain.CategorySecurity,
			Service:     "S3",
			Check:       CheckS3PublicAccess,
		},
		{
			ID:          "SEC-S3-002",
			Title:       "S3 Buckets Encrypted",
			Description: "Checks if S3 buckets are encrypted",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "S3",
			Check:       CheckS3Encryption,
		},
		{
			ID:          "SEC-AUDIT-001",
			Title:       "CloudTrail Enabled",
			Description: "Checks if CloudTrail is enabled",
			Severity:    domain.SeverityCritical,
			Category:    domain.CategorySecurity,
			Service:     "CLOUDTRAIL",
			Check:       CheckCloudTrailEnabled,
		},
		{
			ID:          "SEC-RDS-001",
			Title:       "RDS Storage Encryption",
			Description: "Checks if RDS instances have storage encryption enabled",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "RDS",
			Check:       CheckRDSEncryption,
		},
		{
			ID:          "FIN-EKS-001",
			Title:       "EKS Worker Node Encryption",
			Description: "Checks if EKS clusters define an encryption config for worker workloads",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "EKS",
			Check:       CheckEKSNodeEncryption,
		},
		{
			ID:          "FIN-NET-001",
			Title:       "VPC Flow Logs Enabled",
			Description: "Checks if VPC flow logs are enabled for audit trails",
			Severity:    domain.SeverityHigh,
			Category:    domain.CategorySecurity,
			Service:     "VPC",
			Check:       CheckVPCFlowLogs,
		},
		{
			ID:          "FIN-TAG-001",
			Title:       "Required Tags Present",
			Description: "Checks if required financial compliance tags are present",
			Severity:    domain.SeverityMedium,
			Category:    domain.CategoryOperations,
			Service:     "GENERAL",
			Check:       CheckRequiredTags,
		},
		{
			ID:          "COST-CE-001",
			Title:       "Month-over-Month Spend Growth",
			Description: "Warns when account spend grew more than 20% against the previous month",
			Severity:    domain.SeverityLow,
			Category:    domain.CategoryCost,
			Service:     "BILLING",
			Check:       CheckCostGrowth,
		},
	}
}

// Default builds the catalog of built-in rules.
func Default() (Catalog, error) {
	return New(DefaultRules())
}

// Without returns the rules with the given ids removed, preserving
// order. Unknown ids are ignored.
func Without(rules []domain.Rule, disabled []string) []domain.Rule {
	if len(disabled) == 0 {
		return rules
	}
	skip := make(map[string]struct{}, len(disabled))
	for _, id := range disabled {
		skip[id] = struct{}{}
	}
	kept := make([]domain.Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := skip[r.ID]; ok {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
