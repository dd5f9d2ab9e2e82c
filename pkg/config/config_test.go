package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rawmat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "rawmat", cfg.App.Name)
	assert.Equal(t, SafetyStockPercentage, cfg.Planning.SafetyStockMethod)
	assert.Equal(t, Weekly, cfg.Planning.AggregationPeriod)
	assert.InDelta(t, 1.0, cfg.Planning.SupplierEvaluationWeights.Sum(), 1e-9)
	assert.Equal(t, 12.0, cfg.Planning.AnnualDemandMultiplier)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfig(t, `
app:
  name: mill-planner
  log_level: debug
planning:
  safety_stock_method: statistical
  service_level: 0.99
  aggregation_period: monthly
  enable_multi_supplier: true
  max_suppliers_per_material: 2
  use_style_yarn_bom: true
  supplier_evaluation_weights:
    price: 0.4
    lead_time: 0.2
    reliability: 0.2
    quality: 0.1
    payment_terms: 0.1
  forecast_source_weights:
    manual: 0.6
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mill-planner", cfg.App.Name)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, SafetyStockStatistical, cfg.Planning.SafetyStockMethod)
	assert.Equal(t, 0.99, cfg.Planning.ServiceLevel)
	assert.Equal(t, Monthly, cfg.Planning.AggregationPeriod)
	assert.True(t, cfg.Planning.EnableMultiSupplier)
	assert.True(t, cfg.Planning.UseStyleYarnBOM)
	assert.Equal(t, 2, cfg.Planning.MaxSuppliersPerMaterial)
	assert.Equal(t, 0.4, cfg.Planning.SupplierEvaluationWeights.Price)
	assert.Equal(t, 0.6, cfg.Planning.ForecastSourceWeights["manual"])
	// untouched keys keep their defaults
	assert.Equal(t, 14, cfg.Planning.DefaultLeadTimeDays)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestPlanningConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *PlanningConfig)
		field  string
	}{
		{"unknown safety stock method", func(c *PlanningConfig) { c.SafetyStockMethod = "gut_feel" }, "safety_stock_method"},
		{"unknown aggregation period", func(c *PlanningConfig) { c.AggregationPeriod = "fortnightly" }, "aggregation_period"},
		{"service level of one", func(c *PlanningConfig) { c.ServiceLevel = 1 }, "service_level"},
		{"service level of zero", func(c *PlanningConfig) { c.ServiceLevel = 0 }, "service_level"},
		{"weights not summing to one", func(c *PlanningConfig) { c.SupplierEvaluationWeights.Price = 0.5 }, "supplier_evaluation_weights"},
		{"negative weight", func(c *PlanningConfig) {
			c.SupplierEvaluationWeights.Price = -0.1
			c.SupplierEvaluationWeights.Reliability = 0.65
		}, "supplier_evaluation_weights.price"},
		{"zero demand multiplier", func(c *PlanningConfig) { c.AnnualDemandMultiplier = 0 }, "annual_demand_multiplier"},
		{"zero suppliers per material", func(c *PlanningConfig) { c.MaxSuppliersPerMaterial = 0 }, "max_suppliers_per_material"},
		{"unknown forecast source weight", func(c *PlanningConfig) { c.ForecastSourceWeights = map[string]float64{"rumor": 0.1} }, "forecast_source_weights"},
		{"min reliability above one", func(c *PlanningConfig) { c.MinReliability = 2 }, "min_reliability"},
		{"several negative weights report the first", func(c *PlanningConfig) {
			c.SupplierEvaluationWeights.LeadTime = -0.1
			c.SupplierEvaluationWeights.Quality = -0.2
			c.SupplierEvaluationWeights.PaymentTerms = -0.3
		}, "supplier_evaluation_weights.lead_time"},
		{"nan weight", func(c *PlanningConfig) { c.SupplierEvaluationWeights.Quality = math.NaN() }, "supplier_evaluation_weights.quality"},
		{"nan service level", func(c *PlanningConfig) { c.ServiceLevel = math.NaN() }, "service_level"},
		{"infinite demand multiplier", func(c *PlanningConfig) { c.AnnualDemandMultiplier = math.Inf(1) }, "annual_demand_multiplier"},
		{"nan min reliability", func(c *PlanningConfig) { c.MinReliability = math.NaN() }, "min_reliability"},
		{"several negative source weights report the first", func(c *PlanningConfig) {
			c.ForecastSourceWeights = map[string]float64{"projection": -1, "manual": -2, "sales_order": -3}
		}, "forecast_source_weights.manual"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPlanningConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var configErr *entities.ConfigError
			require.True(t, errors.As(err, &configErr), "expected *ConfigError, got %T", err)
			assert.Equal(t, tc.field, configErr.Field)
		})
	}
}

func TestAggregationPeriod_Days(t *testing.T) {
	assert.Equal(t, 1.0, Daily.Days())
	assert.Equal(t, 7.0, Weekly.Days())
	assert.Equal(t, 30.0, Monthly.Days())
}
