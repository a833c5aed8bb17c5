package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

type MockS3API struct {
	mock.Mock
}

func (m *MockS3API) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.ListBucketsOutput), args.Error(1)
}

func (m *MockS3API) GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.GetBucketLocationOutput), args.Error(1)
}

func (m *MockS3API) GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetPublicAccessBlockOutput), args.Error(1)
}

func (m *MockS3API) GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetBucketEncryptionOutput), args.Error(1)
}

func bucketsOutput(names ...string) *s3.ListBucketsOutput {
	out := &s3.ListBucketsOutput{}
	for _, name := range names {
		out.Buckets = append(out.Buckets, s3types.Bucket{Name: awssdk.String(name)})
	}
	return out
}

func locationFor(m *MockS3API, bucket string, constraint s3types.BucketLocationConstraint) {
	m.On("GetBucketLocation", mock.Anything, mock.MatchedBy(func(in *s3.GetBucketLocationInput) bool {
		return awssdk.ToString(in.Bucket) == bucket
	})).Return(&s3.GetBucketLocationOutput{LocationConstraint: constraint}, nil)
}

func TestPublicAccessBlock(t *testing.T) {
	ctx := context.Background()

	t.Run("fully blocked bucket passes", func(t *testing.T) {
		api := new(MockS3API)
		api.On("ListBuckets", ctx, mock.Anything).Return(bucketsOutput("logs"), nil)
		locationFor(api, "logs", s3types.BucketLocationConstraint("us-gov-west-1"))
		api.On("GetPublicAccessBlock", ctx, mock.Anything).Return(&s3.GetPublicAccessBlockOutput{
			PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
				BlockPublicAcls:       awssdk.Bool(true),
				BlockPublicPolicy:     awssdk.Bool(true),
				IgnorePublicAcls:      awssdk.Bool(true),
				RestrictPublicBuckets: awssdk.Bool(true),
			},
		}, nil)

		results, err := NewS3Checks(api, "us-gov-west-1").PublicAccessBlock(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
	})

	t.Run("missing configuration fails", func(t *testing.T) {
		api := new(MockS3API)
		api.On("ListBuckets", ctx, mock.Anything).Return(bucketsOutput("open-bucket"), nil)
		locationFor(api, "open-bucket", s3types.BucketLocationConstraint("us-gov-west-1"))
		api.On("GetPublicAccessBlock", ctx, mock.Anything).Return(nil,
			&smithy.GenericAPIError{Code: "NoSuchPublicAccessBlockConfiguration"})

		results, err := NewS3Checks(api, "us-gov-west-1").PublicAccessBlock(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, "open-bucket", results[0].ResourceID)
		assert.NotEmpty(t, results[0].Remediation)
	})

	t.Run("foreign region is not applicable", func(t *testing.T) {
		api := new(MockS3API)
		api.On("ListBuckets", ctx, mock.Anything).Return(bucketsOutput("eu-bucket"), nil)
		locationFor(api, "eu-bucket", s3types.BucketLocationConstraintEuWest1)

		results, err := NewS3Checks(api, "us-gov-west-1").PublicAccessBlock(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusNotApplicable, results[0].Status)
		assert.Empty(t, results[0].Remediation)
		api.AssertNotCalled(t, "GetPublicAccessBlock", mock.Anything, mock.Anything)
	})
}

func TestBucketEncryption(t *testing.T) {
	ctx := context.Background()

	t.Run("missing encryption config fails", func(t *testing.T) {
		api := new(MockS3API)
		api.On("ListBuckets", ctx, mock.Anything).Return(bucketsOutput("plain"), nil)
		locationFor(api, "plain", s3types.BucketLocationConstraint("us-gov-west-1"))
		api.On("GetBucketEncryption", ctx, mock.Anything).Return(nil,
			&smithy.GenericAPIError{Code: "ServerSideEncryptionConfigurationNotFoundError"})

		results, err := NewS3Checks(api, "us-gov-west-1").BucketEncryption(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
	})

	t.Run("encrypted bucket passes", func(t *testing.T) {
		api := new(MockS3API)
		api.On("ListBuckets", ctx, mock.Anything).Return(bucketsOutput("vault"), nil)
		locationFor(api, "vault", s3types.BucketLocationConstraint("us-gov-west-1"))
		api.On("GetBucketEncryption", ctx, mock.Anything).Return(&s3.GetBucketEncryptionOutput{}, nil)

		results, err := NewS3Checks(api, "us-gov-west-1").BucketEncryption(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
	})
}
