package safetystock

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// FallbackRate is the share of the net requirement held as safety stock when the
// selected method cannot be computed
const FallbackRate = 0.2

const dynamicBufferRate = 0.1

// Estimate is the safety stock sized for one material
type Estimate struct {
	MaterialID entities.MaterialID
	Qty        float64
	Method     config.SafetyStockMethod
	Fallback   bool
	Mean       float64
	StdDev     float64
	Warning    *entities.ComputationWarning
}

// Estimator sizes safety stock with the configured method
type Estimator struct {
	method       config.SafetyStockMethod
	serviceLevel float64
	period       config.AggregationPeriod
	logger       *zap.Logger
}

// NewEstimator creates a safety stock estimator from validated planning options
func NewEstimator(cfg config.PlanningConfig, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		method:       cfg.SafetyStockMethod,
		serviceLevel: cfg.ServiceLevel,
		period:       cfg.AggregationPeriod,
		logger:       logger,
	}
}

// Estimate sizes safety stock for a material from its per-period demand history.
// When the history is missing or the method yields no usable number the estimate
// falls back to FallbackRate × net, which always succeeds.
func (e *Estimator) Estimate(
	materialID entities.MaterialID,
	net float64,
	history []float64,
	leadTimeDays int,
) Estimate {
	qty, mean, stdDev, err := e.compute(history, leadTimeDays)
	if err == nil {
		return Estimate{
			MaterialID: materialID,
			Qty:        qty,
			Method:     e.method,
			Mean:       mean,
			StdDev:     stdDev,
		}
	}

	estimate := Estimate{
		MaterialID: materialID,
		Qty:        FallbackRate * math.Max(0, net),
		Method:     e.method,
		Fallback:   true,
	}

	// percentage sizing without history is the documented default, not a degradation
	if e.method != config.SafetyStockPercentage || len(history) > 0 {
		warning := entities.NewComputationWarning(
			entities.WarningMissingDemandHistory,
			string(materialID),
			"%s safety stock unavailable (%v), using %.0f%% of net requirement",
			e.method, err, FallbackRate*100,
		)
		estimate.Warning = &warning
		e.logger.Debug("safety stock fallback applied",
			zap.String("material_id", string(materialID)),
			zap.String("method", string(e.method)),
			zap.Error(err))
	}

	return estimate
}

func (e *Estimator) compute(history []float64, leadTimeDays int) (qty, mean, stdDev float64, err error) {
	if len(history) == 0 {
		return 0, 0, 0, fmt.Errorf("no demand history")
	}

	switch e.method {
	case config.SafetyStockPercentage:
		mean = stat.Mean(history, nil)
		qty = FallbackRate * mean

	case config.SafetyStockMinMax:
		mean = stat.Mean(history, nil)
		qty = mean

	case config.SafetyStockStatistical:
		if len(history) < 2 {
			return 0, 0, 0, fmt.Errorf("need at least 2 periods of history, got %d", len(history))
		}
		mean, stdDev = stat.MeanStdDev(history, nil)
		qty = Statistical(e.serviceLevel, stdDev, LeadTimePeriods(leadTimeDays, e.period))

	case config.SafetyStockDynamic:
		if len(history) < 2 {
			return 0, 0, 0, fmt.Errorf("need at least 2 periods of history, got %d", len(history))
		}
		mean, stdDev = stat.MeanStdDev(history, nil)
		if mean <= 0 {
			return 0, 0, 0, fmt.Errorf("average demand must be positive for coefficient of variation, got %g", mean)
		}
		qty = mean * (1 + stdDev/mean) * dynamicBufferRate

	default:
		return 0, 0, 0, fmt.Errorf("unknown safety stock method: %s", e.method)
	}

	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0, 0, 0, fmt.Errorf("safety stock is not a finite number")
	}
	return math.Max(0, qty), mean, stdDev, nil
}

// ZScore returns the inverse standard normal CDF at the service level
func ZScore(serviceLevel float64) float64 {
	return distuv.UnitNormal.Quantile(serviceLevel)
}

// Statistical computes z(service_level) × σ × sqrt(lead time in periods), floored at zero
func Statistical(serviceLevel, stdDev, leadTimePeriods float64) float64 {
	if leadTimePeriods < 0 {
		leadTimePeriods = 0
	}
	return math.Max(0, ZScore(serviceLevel)*stdDev*math.Sqrt(leadTimePeriods))
}

// LeadTimePeriods expresses a lead time in aggregation periods
func LeadTimePeriods(leadTimeDays int, period config.AggregationPeriod) float64 {
	return float64(leadTimeDays) / period.Days()
}
