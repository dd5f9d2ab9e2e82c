package config

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// SafetyStockMethod selects how safety stock is sized
type SafetyStockMethod string

const (
	SafetyStockPercentage  SafetyStockMethod = "percentage"
	SafetyStockStatistical SafetyStockMethod = "statistical"
	SafetyStockMinMax      SafetyStockMethod = "min_max"
	SafetyStockDynamic     SafetyStockMethod = "dynamic"
)

// AggregationPeriod is the bucket size of demand history
type AggregationPeriod string

const (
	Daily   AggregationPeriod = "daily"
	Weekly  AggregationPeriod = "weekly"
	Monthly AggregationPeriod = "monthly"
)

// Days returns the number of days in one period
func (p AggregationPeriod) Days() float64 {
	switch p {
	case Daily:
		return 1
	case Monthly:
		return 30
	default:
		return 7
	}
}

const weightTolerance = 0.001

// Config is the full application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Planning PlanningConfig `mapstructure:"planning"`
}

// AppConfig holds process-level settings
type AppConfig struct {
	Name      string `mapstructure:"name"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// SupplierWeights are the composite-score weights; they must sum to 1.0
type SupplierWeights struct {
	Price        float64 `mapstructure:"price"`
	LeadTime     float64 `mapstructure:"lead_time"`
	Reliability  float64 `mapstructure:"reliability"`
	Quality      float64 `mapstructure:"quality"`
	PaymentTerms float64 `mapstructure:"payment_terms"`
}

// Sum returns the total of all weights
func (w SupplierWeights) Sum() float64 {
	return w.Price + w.LeadTime + w.Reliability + w.Quality + w.PaymentTerms
}

// PlanningConfig holds every option recognized by the planning pipeline
type PlanningConfig struct {
	SafetyStockMethod         SafetyStockMethod  `mapstructure:"safety_stock_method"`
	ServiceLevel              float64            `mapstructure:"service_level"`
	AggregationPeriod         AggregationPeriod  `mapstructure:"aggregation_period"`
	EnableMultiSupplier       bool               `mapstructure:"enable_multi_supplier"`
	MaxSuppliersPerMaterial   int                `mapstructure:"max_suppliers_per_material"`
	AnnualDemandMultiplier    float64            `mapstructure:"annual_demand_multiplier"`
	SupplierEvaluationWeights SupplierWeights    `mapstructure:"supplier_evaluation_weights"`
	UseStyleYarnBOM           bool               `mapstructure:"use_style_yarn_bom"`
	ForecastSourceWeights     map[string]float64 `mapstructure:"forecast_source_weights"`
	DefaultSetupCost          float64            `mapstructure:"default_setup_cost"`
	DefaultHoldingCostRate    float64            `mapstructure:"default_holding_cost_rate"`
	DefaultLeadTimeDays       int                `mapstructure:"default_lead_time_days"`
	MinReliability            float64            `mapstructure:"min_reliability"`
	Workers                   int                `mapstructure:"workers"`
	TopN                      int                `mapstructure:"top_n"`
}

// DefaultSupplierWeights returns the stock composite-score weights
func DefaultSupplierWeights() SupplierWeights {
	return SupplierWeights{
		Price:        0.3,
		LeadTime:     0.25,
		Reliability:  0.25,
		Quality:      0.15,
		PaymentTerms: 0.05,
	}
}

// DefaultPlanningConfig returns the planning configuration used when no file is given
func DefaultPlanningConfig() PlanningConfig {
	return PlanningConfig{
		SafetyStockMethod:         SafetyStockPercentage,
		ServiceLevel:              0.95,
		AggregationPeriod:         Weekly,
		EnableMultiSupplier:       false,
		MaxSuppliersPerMaterial:   3,
		AnnualDemandMultiplier:    12,
		SupplierEvaluationWeights: DefaultSupplierWeights(),
		UseStyleYarnBOM:           false,
		ForecastSourceWeights:     map[string]float64{},
		DefaultSetupCost:          100,
		DefaultHoldingCostRate:    0.25,
		DefaultLeadTimeDays:       14,
		MinReliability:            0,
		Workers:                   runtime.NumCPU(),
		TopN:                      5,
	}
}

// Default returns the full default configuration
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:      "rawmat",
			LogLevel:  "info",
			LogFormat: "console",
		},
		Planning: DefaultPlanningConfig(),
	}
}

// Load reads configuration from a YAML file. An empty path yields the defaults,
// still subject to RAWMAT_* environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("rawmat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.log_level", def.App.LogLevel)
	v.SetDefault("app.log_format", def.App.LogFormat)

	p := def.Planning
	v.SetDefault("planning.safety_stock_method", string(p.SafetyStockMethod))
	v.SetDefault("planning.service_level", p.ServiceLevel)
	v.SetDefault("planning.aggregation_period", string(p.AggregationPeriod))
	v.SetDefault("planning.enable_multi_supplier", p.EnableMultiSupplier)
	v.SetDefault("planning.max_suppliers_per_material", p.MaxSuppliersPerMaterial)
	v.SetDefault("planning.annual_demand_multiplier", p.AnnualDemandMultiplier)
	v.SetDefault("planning.supplier_evaluation_weights.price", p.SupplierEvaluationWeights.Price)
	v.SetDefault("planning.supplier_evaluation_weights.lead_time", p.SupplierEvaluationWeights.LeadTime)
	v.SetDefault("planning.supplier_evaluation_weights.reliability", p.SupplierEvaluationWeights.Reliability)
	v.SetDefault("planning.supplier_evaluation_weights.quality", p.SupplierEvaluationWeights.Quality)
	v.SetDefault("planning.supplier_evaluation_weights.payment_terms", p.SupplierEvaluationWeights.PaymentTerms)
	v.SetDefault("planning.use_style_yarn_bom", p.UseStyleYarnBOM)
	v.SetDefault("planning.default_setup_cost", p.DefaultSetupCost)
	v.SetDefault("planning.default_holding_cost_rate", p.DefaultHoldingCostRate)
	v.SetDefault("planning.default_lead_time_days", p.DefaultLeadTimeDays)
	v.SetDefault("planning.min_reliability", p.MinReliability)
	v.SetDefault("planning.workers", p.Workers)
	v.SetDefault("planning.top_n", p.TopN)
}

// Validate checks the planning options. It runs once before any planning stage.
func (c *PlanningConfig) Validate() error {
	switch c.SafetyStockMethod {
	case SafetyStockPercentage, SafetyStockStatistical, SafetyStockMinMax, SafetyStockDynamic:
	default:
		return &entities.ConfigError{
			Field:   "safety_stock_method",
			Message: fmt.Sprintf("unknown method %q (expected percentage, statistical, min_max or dynamic)", c.SafetyStockMethod),
		}
	}

	switch c.AggregationPeriod {
	case Daily, Weekly, Monthly:
	default:
		return &entities.ConfigError{
			Field:   "aggregation_period",
			Message: fmt.Sprintf("unknown period %q (expected daily, weekly or monthly)", c.AggregationPeriod),
		}
	}

	if !finite(c.ServiceLevel) || c.ServiceLevel <= 0 || c.ServiceLevel >= 1 {
		return &entities.ConfigError{
			Field:   "service_level",
			Message: fmt.Sprintf("must be in (0, 1), got %g", c.ServiceLevel),
		}
	}

	w := c.SupplierEvaluationWeights
	weights := []struct {
		name  string
		value float64
	}{
		{"price", w.Price},
		{"lead_time", w.LeadTime},
		{"reliability", w.Reliability},
		{"quality", w.Quality},
		{"payment_terms", w.PaymentTerms},
	}
	for _, weight := range weights {
		if !finite(weight.value) || weight.value < 0 {
			return &entities.ConfigError{
				Field:   "supplier_evaluation_weights." + weight.name,
				Message: fmt.Sprintf("must be a finite non-negative number, got %g", weight.value),
			}
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return &entities.ConfigError{
			Field:   "supplier_evaluation_weights",
			Message: fmt.Sprintf("must sum to 1.0, got %g", w.Sum()),
		}
	}

	if !finite(c.AnnualDemandMultiplier) || c.AnnualDemandMultiplier <= 0 {
		return &entities.ConfigError{
			Field:   "annual_demand_multiplier",
			Message: fmt.Sprintf("must be positive, got %g", c.AnnualDemandMultiplier),
		}
	}
	if c.MaxSuppliersPerMaterial < 1 {
		return &entities.ConfigError{
			Field:   "max_suppliers_per_material",
			Message: fmt.Sprintf("must be at least 1, got %d", c.MaxSuppliersPerMaterial),
		}
	}
	if !finite(c.DefaultSetupCost) || !finite(c.DefaultHoldingCostRate) ||
		c.DefaultSetupCost < 0 || c.DefaultHoldingCostRate < 0 {
		return &entities.ConfigError{
			Field:   "default_setup_cost",
			Message: "default setup cost and holding cost rate cannot be negative",
		}
	}
	if c.DefaultLeadTimeDays < 0 {
		return &entities.ConfigError{
			Field:   "default_lead_time_days",
			Message: fmt.Sprintf("cannot be negative, got %d", c.DefaultLeadTimeDays),
		}
	}
	if !finite(c.MinReliability) || c.MinReliability < 0 || c.MinReliability > 1 {
		return &entities.ConfigError{
			Field:   "min_reliability",
			Message: fmt.Sprintf("must be between 0 and 1, got %g", c.MinReliability),
		}
	}
	sources := make([]string, 0, len(c.ForecastSourceWeights))
	for source := range c.ForecastSourceWeights {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	for _, source := range sources {
		weight := c.ForecastSourceWeights[source]
		if _, err := entities.ParseForecastSource(source); err != nil {
			return &entities.ConfigError{Field: "forecast_source_weights", Message: err.Error()}
		}
		if !finite(weight) || weight < 0 {
			return &entities.ConfigError{
				Field:   "forecast_source_weights." + source,
				Message: fmt.Sprintf("must be a finite non-negative number, got %g", weight),
			}
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return &entities.ConfigError{Field: "app.name", Message: "is required"}
	}
	return c.Planning.Validate()
}
