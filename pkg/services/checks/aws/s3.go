package aws

import (
	"context"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

const (
	ruleS3PublicAccess = "SEC-S3-001"
	ruleS3Encryption   = "SEC-S3-002"
)

// S3API is the slice of the S3 client the checks consume.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
}

type S3Checks struct {
	client S3API
	region string
}

func NewS3Checks(client S3API, region string) *S3Checks {
	return &S3Checks{client: client, region: region}
}

// bucketRegion resolves the region a bucket lives in. An empty location
// constraint means us-east-1.
func (c *S3Checks) bucketRegion(ctx context.Context, bucket string) (string, error) {
	loc, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: awssdk.String(bucket),
	})
	if err != nil {
		return "", err
	}
	if loc.LocationConstraint == "" {
		return "us-east-1", nil
	}
	return string(loc.LocationConstraint), nil
}

// PublicAccessBlock verifies every bucket in the scan region blocks all
// four classes of public access. Buckets homed in other regions are
// reported NOT_APPLICABLE rather than skipped, so the report stays a
// complete inventory.
func (c *S3Checks) PublicAccessBlock(ctx context.Context) ([]domain.Result, error) {
	buckets, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var results []domain.Result
	for _, bucket := range buckets.Buckets {
		name := awssdk.ToString(bucket.Name)

		region, err := c.bucketRegion(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get location for bucket %s: %w", name, err)
		}
		if region != c.region {
			results = append(results, domain.Result{
				RuleID:     ruleS3PublicAccess,
				Status:     domain.StatusNotApplicable,
				ResourceID: name,
				Details:    fmt.Sprintf("Bucket is homed in %s, outside the scan region", region),
			})
			continue
		}

		block, err := c.client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{
			Bucket: awssdk.String(name),
		})
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchPublicAccessBlockConfiguration" {
				results = append(results, domain.Result{
					RuleID:      ruleS3PublicAccess,
					Status:      domain.StatusFail,
					ResourceID:  name,
					Details:     "Bucket has no public access block configuration",
					Remediation: fmt.Sprintf("Enable all public access block settings on bucket %s", name),
				})
				continue
			}
			return nil, fmt.Errorf("failed to get public access block for %s: %w", name, err)
		}

		cfg := block.PublicAccessBlockConfiguration
		blocked := cfg != nil &&
			awssdk.ToBool(cfg.BlockPublicAcls) &&
			awssdk.ToBool(cfg.BlockPublicPolicy) &&
			awssdk.ToBool(cfg.IgnorePublicAcls) &&
			awssdk.ToBool(cfg.RestrictPublicBuckets)

		if blocked {
			results = append(results, domain.Result{
				RuleID:     ruleS3PublicAccess,
				Status:     domain.StatusPass,
				ResourceID: name,
				Details:    "Bucket blocks all public access",
			})
		} else {
			results = append(results, domain.Result{
				RuleID:      ruleS3PublicAccess,
				Status:      domain.StatusFail,
				ResourceID:  name,
				Details:     "Bucket does not block all classes of public access",
				Remediation: fmt.Sprintf("Enable all public access block settings on bucket %s", name),
			})
		}
	}
	return results, nil
}

// BucketEncryption verifies every bucket in the scan region has
// server-side encryption configured.
func (c *S3Checks) BucketEncryption(ctx context.Context) ([]domain.Result, error) {
	buckets, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var results []domain.Result
	for _, bucket := range buckets.Buckets {
		name := awssdk.ToString(bucket.Name)

		region, err := c.bucketRegion(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get location for bucket %s: %w", name, err)
		}
		if region != c.region {
			results = append(results, domain.Result{
				RuleID:     ruleS3Encryption,
				Status:     domain.StatusNotApplicable,
				ResourceID: name,
				Details:    fmt.Sprintf("Bucket is homed in %s, outside the scan region", region),
			})
			continue
		}

		_, err = c.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
			Bucket: awssdk.String(name),
		})
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ServerSideEncryptionConfigurationNotFoundError" {
				results = append(results, domain.Result{
					RuleID:      ruleS3Encryption,
					Status:      domain.StatusFail,
					ResourceID:  name,
					Details:     "Bucket has no server-side encryption configuration",
					Remediation: fmt.Sprintf("Enable default encryption (SSE-S3 or SSE-KMS) on bucket %s", name),
				})
				continue
			}
			return nil, fmt.Errorf("failed to get encryption config for %s: %w", name, err)
		}

		results = append(results, domain.Result{
			RuleID:     ruleS3Encryption,
			Status:     domain.StatusPass,
			ResourceID: name,
			Details:    "Bucket has server-side encryption configured",
		})
	}
	return results, nil
}
