package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	trailtypes "github.com/aws/aws-sdk-go-v2/service/cloudtrail/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

type MockCloudTrailAPI struct {
	mock.Mock
}

func (m *MockCloudTrailAPI) DescribeTrails(ctx context.Context, params *cloudtrail.DescribeTrailsInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.DescribeTrailsOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*cloudtrail.DescribeTrailsOutput), args.Error(1)
}

func (m *MockCloudTrailAPI) GetTrailStatus(ctx context.Context, params *cloudtrail.GetTrailStatusInput, optFns ...func(*cloudtrail.Options)) (*cloudtrail.GetTrailStatusOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*cloudtrail.GetTrailStatusOutput), args.Error(1)
}

func TestTrailEnabled(t *testing.T) {
	ctx := context.Background()

	t.Run("no trails fails at account level", func(t *testing.T) {
		api := new(MockCloudTrailAPI)
		api.On("DescribeTrails", ctx, mock.Anything).Return(&cloudtrail.DescribeTrailsOutput{}, nil)

		results, err := NewCloudTrailChecks(api).TrailEnabled(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusFail, results[0].Status)
		assert.Equal(t, "account", results[0].ResourceID)
		assert.NotEmpty(t, results[0].Remediation)
	})

	t.Run("one result per trail", func(t *testing.T) {
		api := new(MockCloudTrailAPI)
		api.On("DescribeTrails", ctx, mock.Anything).Return(&cloudtrail.DescribeTrailsOutput{
			TrailList: []trailtypes.Trail{
				{Name: awssdk.String("audit"), TrailARN: awssdk.String("arn:trail/audit")},
				{Name: awssdk.String("stale"), TrailARN: awssdk.String("arn:trail/stale")},
			},
		}, nil)
		api.On("GetTrailStatus", ctx, mock.MatchedBy(func(in *cloudtrail.GetTrailStatusInput) bool {
			return awssdk.ToString(in.Name) == "arn:trail/audit"
		})).Return(&cloudtrail.GetTrailStatusOutput{IsLogging: awssdk.Bool(true)}, nil)
		api.On("GetTrailStatus", ctx, mock.MatchedBy(func(in *cloudtrail.GetTrailStatusInput) bool {
			return awssdk.ToString(in.Name) == "arn:trail/stale"
		})).Return(&cloudtrail.GetTrailStatusOutput{IsLogging: awssdk.Bool(false)}, nil)

		results, err := NewCloudTrailChecks(api).TrailEnabled(ctx)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, domain.StatusPass, results[0].Status)
		assert.Equal(t, "audit", results[0].ResourceID)
		assert.Equal(t, domain.StatusFail, results[1].Status)
		assert.Contains(t, results[1].Remediation, "stale")
		api.AssertExpectations(t)
	})
}
