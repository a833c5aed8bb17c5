package aws

import (
	"context"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

type MockCostExplorerAPI struct {
	mock.Mock
}

func (m *MockCostExplorerAPI) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*costexplorer.GetCostAndUsageOutput), args.Error(1)
}

func costOutput(amounts ...string) *costexplorer.GetCostAndUsageOutput {
	out := &costexplorer.GetCostAndUsageOutput{}
	for _, amount := range amounts {
		out.ResultsByTime = append(out.ResultsByTime, cetypes.ResultByTime{
			Total: map[string]cetypes.MetricValue{
				"UnblendedCost": {Amount: awssdk.String(amount)},
			},
		})
	}
	return out
}

func TestSpendGrowth(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

	t.Run("growth above threshold warns", func(t *testing.T) {
		api := new(MockCostExplorerAPI)
		api.On("GetCostAndUsage", ctx, mock.MatchedBy(func(in *costexplorer.GetCostAndUsageInput) bool {
			return awssdk.ToString(in.TimePeriod.Start) == "2025-04-01" &&
				awssdk.ToString(in.TimePeriod.End) == "2025-06-01"
		})).Return(costOutput("1000.00", "1500.00"), nil)

		results, err := NewBillingChecks(api, clock).SpendGrowth(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusWarning, results[0].Status)
		assert.Contains(t, results[0].Details, "50.0%")
		api.AssertExpectations(t)
	})

	t.Run("flat spend passes", func(t *testing.T) {
		api := new(MockCostExplorerAPI)
		api.On("GetCostAndUsage", ctx, mock.Anything).Return(costOutput("1000.00", "1050.00"), nil)

		results, err := NewBillingChecks(api, clock).SpendGrowth(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusPass, results[0].Status)
	})

	t.Run("short history is not applicable", func(t *testing.T) {
		api := new(MockCostExplorerAPI)
		api.On("GetCostAndUsage", ctx, mock.Anything).Return(costOutput("1000.00"), nil)

		results, err := NewBillingChecks(api, clock).SpendGrowth(ctx)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, domain.StatusNotApplicable, results[0].Status)
	})
}
