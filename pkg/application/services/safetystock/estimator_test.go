package safetystock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func estimator(method config.SafetyStockMethod, serviceLevel float64) *Estimator {
	cfg := config.DefaultPlanningConfig()
	cfg.SafetyStockMethod = method
	cfg.ServiceLevel = serviceLevel
	return NewEstimator(cfg, nil)
}

func TestEstimator_Methods(t *testing.T) {
	history := []float64{100, 120, 80, 100}
	// sample std dev of the history
	const sigma = 16.329931618554522

	testCases := []struct {
		name     string
		method   config.SafetyStockMethod
		lead     int
		expected float64
	}{
		{"percentage", config.SafetyStockPercentage, 14, 20},
		{"min max", config.SafetyStockMinMax, 14, 100},
		{"statistical", config.SafetyStockStatistical, 14, ZScore(0.95) * sigma * math.Sqrt(2)},
		{"dynamic", config.SafetyStockDynamic, 14, 100 * (1 + sigma/100) * 0.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			est := estimator(tc.method, 0.95).Estimate("YARN-A", 500, history, tc.lead)

			assert.False(t, est.Fallback)
			assert.Nil(t, est.Warning)
			assert.InDelta(t, tc.expected, est.Qty, 1e-6)
		})
	}
}

func TestEstimator_FallbackWithoutHistory(t *testing.T) {
	t.Run("percentage falls back quietly", func(t *testing.T) {
		est := estimator(config.SafetyStockPercentage, 0.95).Estimate("YARN-A", 500, nil, 14)
		assert.True(t, est.Fallback)
		assert.InDelta(t, 100.0, est.Qty, 1e-9)
		assert.Nil(t, est.Warning)
	})

	for _, method := range []config.SafetyStockMethod{
		config.SafetyStockStatistical,
		config.SafetyStockMinMax,
		config.SafetyStockDynamic,
	} {
		t.Run(string(method)+" warns", func(t *testing.T) {
			est := estimator(method, 0.95).Estimate("YARN-A", 500, nil, 14)
			assert.True(t, est.Fallback)
			assert.InDelta(t, 100.0, est.Qty, 1e-9)
			require.NotNil(t, est.Warning)
			assert.Equal(t, entities.WarningMissingDemandHistory, est.Warning.Code)
			assert.Equal(t, "YARN-A", est.Warning.Subject)
		})
	}
}

func TestEstimator_FallbackOnDegenerateHistory(t *testing.T) {
	t.Run("single period statistical", func(t *testing.T) {
		est := estimator(config.SafetyStockStatistical, 0.95).Estimate("M", 50, []float64{10}, 7)
		assert.True(t, est.Fallback)
		assert.InDelta(t, 10.0, est.Qty, 1e-9)
	})

	t.Run("zero demand dynamic", func(t *testing.T) {
		est := estimator(config.SafetyStockDynamic, 0.95).Estimate("M", 50, []float64{0, 0, 0}, 7)
		assert.True(t, est.Fallback)
		assert.InDelta(t, 10.0, est.Qty, 1e-9)
	})

	t.Run("negative net never yields negative stock", func(t *testing.T) {
		est := estimator(config.SafetyStockDynamic, 0.95).Estimate("M", -5, nil, 7)
		assert.Equal(t, 0.0, est.Qty)
	})
}

func TestStatistical_MonotonicInServiceLevel(t *testing.T) {
	history := []float64{90, 130, 70, 110, 100, 95}
	levels := []float64{0.5, 0.8, 0.9, 0.95, 0.975, 0.99, 0.999}

	previous := -1.0
	for _, level := range levels {
		est := estimator(config.SafetyStockStatistical, level).Estimate("M", 0, history, 21)
		require.False(t, est.Fallback)
		assert.GreaterOrEqual(t, est.Qty, previous, "service level %g", level)
		previous = est.Qty
	}
}

func TestZScore(t *testing.T) {
	assert.InDelta(t, 1.6449, ZScore(0.95), 1e-4)
	assert.InDelta(t, 2.3263, ZScore(0.99), 1e-4)
	assert.InDelta(t, 0.0, ZScore(0.5), 1e-12)
}

func TestLeadTimePeriods(t *testing.T) {
	assert.Equal(t, 14.0, LeadTimePeriods(14, config.Daily))
	assert.Equal(t, 2.0, LeadTimePeriods(14, config.Weekly))
	assert.Equal(t, 0.5, LeadTimePeriods(15, config.Monthly))
}
