package forecast

import (
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// DefaultUnknownSourceWeight applies to sources without a configured weight
const DefaultUnknownSourceWeight = 0.5

// DefaultSourceWeights returns the stock source weights
func DefaultSourceWeights() map[entities.ForecastSource]float64 {
	return map[entities.ForecastSource]float64{
		entities.SourceSalesOrder: 1.0,
		entities.SourceProdPlan:   0.9,
		entities.SourceProjection: 0.7,
	}
}

// Aggregator unifies forecasts from several sources into one demand figure per SKU
type Aggregator struct {
	weights       map[entities.ForecastSource]float64
	unknownWeight float64
}

// NewAggregator creates an aggregator with the default source weights
func NewAggregator() *Aggregator {
	return NewAggregatorWithWeights(nil)
}

// NewAggregatorWithWeights creates an aggregator whose weights override the defaults
func NewAggregatorWithWeights(overrides map[entities.ForecastSource]float64) *Aggregator {
	weights := DefaultSourceWeights()
	for source, weight := range overrides {
		weights[source] = weight
	}
	return &Aggregator{
		weights:       weights,
		unknownWeight: DefaultUnknownSourceWeight,
	}
}

// Weight returns the weight applied to a source
func (a *Aggregator) Weight(source entities.ForecastSource) float64 {
	if weight, ok := a.weights[source]; ok {
		return weight
	}
	return a.unknownWeight
}

// Unify sums forecast_qty × source weight per SKU. Forecasts for the same SKU are additive.
func (a *Aggregator) Unify(forecasts []*entities.Forecast) map[entities.SKU]float64 {
	unified := make(map[entities.SKU]float64)
	for _, f := range forecasts {
		if f == nil {
			continue
		}
		unified[f.SKU] += f.Quantity * a.Weight(f.Source)
	}
	return unified
}
