package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
	atlasconfig "github.com/de-tools/compliance-atlas/pkg/services/config"
	"github.com/de-tools/compliance-atlas/pkg/services/scan"
)

// DefaultRegion mirrors the region the scanner was originally deployed
// against.
const DefaultRegion = "us-gov-west-1"

// LoadConfig resolves AWS credentials and region through the default
// provider chain, honoring the shared config file and environment.
func LoadConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Clients bundles the service clients the built-in checks evaluate
// against. All clients are safe for concurrent use.
type Clients struct {
	iam    *IAMChecks
	ec2    *EC2Checks
	s3     *S3Checks
	eks    *EKSChecks
	trail  *CloudTrailChecks
	rds    *RDSChecks
	billing *BillingChecks
}

// NewClients builds every check group from one resolved AWS config.
func NewClients(cfg aws.Config, region string, clock func() time.Time) *Clients {
	if clock == nil {
		clock = time.Now
	}
	return &Clients{
		iam:     NewIAMChecks(iam.NewFromConfig(cfg), clock),
		ec2:     NewEC2Checks(ec2.NewFromConfig(cfg)),
		s3:      NewS3Checks(s3.NewFromConfig(cfg), region),
		eks:     NewEKSChecks(eks.NewFromConfig(cfg)),
		trail:   NewCloudTrailChecks(cloudtrail.NewFromConfig(cfg)),
		rds:     NewRDSChecks(rds.NewFromConfig(cfg)),
		billing: NewBillingChecks(costexplorer.NewFromConfig(cfg), clock),
	}
}

// RegisterChecks binds every built-in check to its catalog name.
func RegisterChecks(reg scan.Registry, c *Clients) error {
	bindings := map[string]scan.Check{
		catalog.CheckRootMFA:               c.iam.RootMFA,
		catalog.CheckAccessKeyRotation:     c.iam.AccessKeyRotation,
		catalog.CheckDefaultSecurityGroups: c.ec2.DefaultSecurityGroups,
		catalog.CheckVPCFlowLogs:           c.ec2.VPCFlowLogs,
		catalog.CheckRequiredTags:          c.ec2.RequiredTags,
		catalog.CheckS3PublicAccess:        c.s3.PublicAccessBlock,
		catalog.CheckS3Encryption:          c.s3.BucketEncryption,
		catalog.CheckEKSLogging:            c.eks.ControlPlaneLogging,
		catalog.CheckEKSPrivateEndpoint:    c.eks.PrivateEndpoint,
		catalog.CheckEKSNodeEncryption:     c.eks.EncryptionConfig,
		catalog.CheckCloudTrailEnabled:     c.trail.TrailEnabled,
		catalog.CheckRDSEncryption:         c.rds.StorageEncryption,
		catalog.CheckCostGrowth:            c.billing.SpendGrowth,
	}
	for name, check := range bindings {
		if err := reg.Register(name, check); err != nil {
			return fmt.Errorf("failed to register check %q: %w", name, err)
		}
	}
	return nil
}

// ScannerFactory builds a scanner whose checks run against AWS. It is
// the production scan.Factory; entrypoints hand it to the CLI and the
// web server.
func ScannerFactory(ctx context.Context, settings atlasconfig.Settings) (*scan.Scanner, error) {
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	cfg, err := LoadConfig(ctx, region, settings.Profile)
	if err != nil {
		return nil, err
	}

	reg := scan.NewRegistry()
	if err := RegisterChecks(reg, NewClients(cfg, region, nil)); err != nil {
		return nil, err
	}

	cat, err := catalog.New(catalog.Without(catalog.DefaultRules(), settings.DisabledRules))
	if err != nil {
		return nil, fmt.Errorf("failed to build rule catalog: %w", err)
	}

	return scan.NewScanner(scan.Options{
		Catalog:      cat,
		Registry:     reg,
		Region:       region,
		CheckTimeout: settings.CheckTimeout(),
		Concurrency:  settings.Concurrency,
	}), nil
}
